package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/smcd-ma/portal/core/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"lower": strings.ToLower,
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		pages[strings.TrimSuffix(name, ".html")] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name),
		)
	}
}

// Toast is a one-shot notification rendered by the layout.
type Toast struct {
	Kind    string `json:"kind"` // success, error, info
	Message string `json:"message"`
}

// Layout carries what every page shows around its content.
type Layout struct {
	Title string
	User  *session.Profile
	Admin bool
	Toast *Toast
}

func render(page string, data any) templ.Component {
	t, ok := pages[page]
	if !ok {
		panic("views: unknown page " + page)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout.html", data)
	})
}

// HomeData is the public landing page.
type HomeData struct {
	Layout
}

func Home(d HomeData) templ.Component { return render("home", d) }

// LoginData is the admin login form.
type LoginData struct {
	Layout
	Email       string
	Redirect    string
	Error       string
	FieldErrors map[string]string
}

func Login(d LoginData) templ.Component { return render("login", d) }

// DashboardData holds the admin overview counts. A negative count is shown
// as unavailable.
type DashboardData struct {
	Layout
	Abstracts     int
	Registrations int
	Users         int
}

func Dashboard(d DashboardData) templ.Component { return render("dashboard", d) }

// Abstract is one row of the abstracts table.
type Abstract struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Status      string    `json:"status"`
	FileURL     string    `json:"fileUrl"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type AbstractsData struct {
	Layout
	Abstracts []Abstract
	Status    string
}

func Abstracts(d AbstractsData) templ.Component { return render("abstracts", d) }

// User is one row of the users table.
type User struct {
	ID     int64        `json:"id"`
	Email  string       `json:"email"`
	Nom    string       `json:"nom"`
	Prenom string       `json:"prenom"`
	Role   session.Role `json:"role"`
	Active bool         `json:"active"`
}

type UsersData struct {
	Layout
	Users []User
}

func Users(d UsersData) templ.Component { return render("users", d) }

// Loading is the blocking shell shown while the session is verified.
type LoadingData struct {
	Layout
	Target string
}

func Loading(d LoadingData) templ.Component { return render("loading", d) }

// ErrorData is the generic error page.
type ErrorData struct {
	Layout
	Status  int
	Message string
}

func Error(d ErrorData) templ.Component { return render("error", d) }
