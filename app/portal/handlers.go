package portal

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/smcd-ma/portal/app/portal/views"
	"github.com/smcd-ma/portal/core/apiclient"
	"github.com/smcd-ma/portal/core/authclient"
	"github.com/smcd-ma/portal/core/form"
	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/response"
)

const toastKey = "toast"

type loginForm struct {
	Email    string `form:"email" sanitize:"email" validate:"required;email;max:255"`
	Password string `form:"password" validate:"required;max:512"`
	Redirect string `form:"redirect" sanitize:"trim"`
}

type uploadForm struct {
	File *multipart.FileHeader `file:"file" validate:"required;ext:pdf"`
}

// layout reads the cached profile and consumes the pending toast.
func (a *App) layout(ctx *handler.Context, title string) views.Layout {
	l := views.Layout{Title: title}
	if p, ok := a.auth.CurrentUser(ctx); ok {
		l.User = &p
		l.Admin = a.auth.IsAdmin(ctx)
	}

	var t views.Toast
	if err := a.cookies.GetFlash(ctx.ResponseWriter(), ctx.Request(), toastKey, &t); err == nil {
		l.Toast = &t
	}
	return l
}

func (a *App) toast(ctx *handler.Context, kind, message string) {
	if err := a.cookies.SetFlash(ctx.ResponseWriter(), toastKey, views.Toast{Kind: kind, Message: message}); err != nil {
		a.log.WarnContext(ctx, "set toast", logger.Error(err))
	}
}

// apiFailure maps a failed API call to a response. A rejected or revoked
// credential has already logged out and queued the navigation.
func (a *App) apiFailure(ctx *handler.Context, err error) handler.Response {
	if errors.Is(err, apiclient.ErrCredentialRejected) || errors.Is(err, apiclient.ErrSessionRevoked) {
		return nil
	}
	return response.Error(err)
}

func (a *App) home(ctx *handler.Context) handler.Response {
	return response.Templ(views.Home(views.HomeData{Layout: a.layout(ctx, "")}))
}

func (a *App) adminIndex(*handler.Context) handler.Response {
	return response.RedirectSeeOther(a.paths.Home)
}

func (a *App) loginPage(ctx *handler.Context) handler.Response {
	redirect := ctx.Request().URL.Query().Get(a.paths.RedirectParam)
	if redirect != "" {
		redirect = a.paths.SafeReturn(redirect)
	}
	return response.Templ(views.Login(views.LoginData{
		Layout:   a.layout(ctx, "Connexion"),
		Redirect: redirect,
	}))
}

func (a *App) loginSubmit(ctx *handler.Context) handler.Response {
	var f loginForm
	if err := form.Parse(ctx.Request(), &f); err != nil {
		ve, ok := form.AsValidation(err)
		if !ok {
			return response.Error(response.ErrBadRequest.WithError(err))
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field] = fe.Message
		}
		return response.TemplWithStatus(views.Login(views.LoginData{
			Layout:      a.layout(ctx, "Connexion"),
			Email:       f.Email,
			Redirect:    f.Redirect,
			FieldErrors: fields,
		}), http.StatusUnprocessableEntity)
	}

	profile, err := a.auth.Login(ctx, authclient.Credentials{Email: f.Email, Password: f.Password})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, authclient.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		return response.TemplWithStatus(views.Login(views.LoginData{
			Layout:   a.layout(ctx, "Connexion"),
			Email:    f.Email,
			Redirect: f.Redirect,
			Error:    authclient.Message(err),
		}), status)
	}

	a.toast(ctx, "success", "Bienvenue, "+profile.DisplayName()+".")
	return response.RedirectSeeOther(a.paths.SafeReturn(f.Redirect))
}

func (a *App) logout(ctx *handler.Context) handler.Response {
	a.auth.Logout(ctx)
	a.toast(ctx, "info", "Vous avez été déconnecté.")
	return nil
}

func (a *App) loading(ctx *handler.Context) handler.Response {
	return response.Templ(views.Loading(views.LoadingData{
		Layout: views.Layout{Title: "Chargement"},
		Target: ctx.Request().URL.RequestURI(),
	}))
}

func (a *App) forbidden(ctx *handler.Context) handler.Response {
	return response.TemplWithStatus(views.Error(views.ErrorData{
		Layout:  a.layout(ctx, "Accès refusé"),
		Status:  http.StatusForbidden,
		Message: "Vous n'avez pas les droits nécessaires pour accéder à cette page.",
	}), http.StatusForbidden)
}

// dashboard loads the counts concurrently. A failed count is shown as
// unavailable; the others still render.
func (a *App) dashboard(ctx *handler.Context) handler.Response {
	layout := a.layout(ctx, "Tableau de bord")
	d := views.DashboardData{Layout: layout, Abstracts: -1, Registrations: -1, Users: -1}

	var g errgroup.Group
	count := func(path string, dst *int) {
		g.Go(func() error {
			var items []json.RawMessage
			if err := a.api.Get(ctx, path, &items); err != nil {
				return err
			}
			*dst = len(items)
			return nil
		})
	}
	count("/abstracts", &d.Abstracts)
	count("/registrations", &d.Registrations)
	if layout.Admin {
		count("/users", &d.Users)
	}

	if err := g.Wait(); err != nil {
		if resp := a.apiFailure(ctx, err); resp == nil {
			return nil
		}
		a.log.WarnContext(ctx, "dashboard counts incomplete", logger.Component("dashboard"), logger.Error(err))
	}
	return response.Templ(views.Dashboard(d))
}

func (a *App) abstracts(ctx *handler.Context) handler.Response {
	status := strings.ToUpper(strings.TrimSpace(ctx.Request().URL.Query().Get("status")))

	var opts []apiclient.RequestOption
	if status != "" {
		opts = append(opts, apiclient.WithQuery(url.Values{"status": {status}}))
	}

	var list []views.Abstract
	if err := a.api.Get(ctx, "/abstracts", &list, opts...); err != nil {
		return a.apiFailure(ctx, err)
	}

	return response.Templ(views.Abstracts(views.AbstractsData{
		Layout:    a.layout(ctx, "Résumés"),
		Abstracts: list,
		Status:    status,
	}))
}

// uploadAbstractFile streams the PDF to the remote service on the upload
// channel and returns to the table with a toast.
func (a *App) uploadAbstractFile(ctx *handler.Context) handler.Response {
	back := a.paths.Prefix + "/abstracts"

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return response.Error(response.ErrNotFound)
	}

	var f uploadForm
	err = form.Parse(ctx.Request(), &f)
	// Parts above the memory budget spill to temp files. net/http removes
	// them only for the original request, not for the context-bound copy.
	if mf := ctx.Request().MultipartForm; mf != nil {
		defer func() { _ = mf.RemoveAll() }()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch ve, ok := form.AsValidation(err); {
		case ok:
			a.toast(ctx, "error", ve[0].Message)
		case errors.As(err, &tooLarge):
			a.toast(ctx, "error", "Le fichier dépasse la taille maximale autorisée.")
		default:
			a.toast(ctx, "error", "Formulaire invalide.")
		}
		return response.RedirectSeeOther(back)
	}

	file, err := f.File.Open()
	if err != nil {
		return response.Error(err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return response.Error(err)
	}
	if !mtype.Is("application/pdf") {
		a.toast(ctx, "error", "Le fichier doit être un PDF.")
		return response.RedirectSeeOther(back)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return response.Error(err)
	}

	path := "/abstracts/" + strconv.FormatInt(id, 10) + "/file"
	err = a.api.Upload(ctx, path, nil, apiclient.File{
		Field:       "file",
		Name:        f.File.Filename,
		ContentType: mtype.String(),
		Content:     file,
	}, nil)
	if err != nil {
		if resp := a.apiFailure(ctx, err); resp == nil {
			return nil
		}
		a.log.WarnContext(ctx, "abstract upload failed", logger.Component("upload"), logger.Error(err))
		msg := "Le téléversement a échoué."
		if apiclient.IsNetwork(err) {
			msg = authclient.Message(authclient.ErrUnavailable)
		}
		a.toast(ctx, "error", msg)
		return response.RedirectSeeOther(back)
	}

	a.toast(ctx, "success", "Fichier téléversé.")
	return response.RedirectSeeOther(back)
}

func (a *App) users(ctx *handler.Context) handler.Response {
	var list []views.User
	if err := a.api.Get(ctx, "/users", &list); err != nil {
		return a.apiFailure(ctx, err)
	}
	return response.Templ(views.Users(views.UsersData{
		Layout: a.layout(ctx, "Utilisateurs"),
		Users:  list,
	}))
}

var errorMessages = map[int]string{
	http.StatusBadRequest:            "La requête est invalide.",
	http.StatusForbidden:             "Vous n'avez pas les droits nécessaires pour accéder à cette page.",
	http.StatusNotFound:              "Page introuvable.",
	http.StatusMethodNotAllowed:      "Méthode non autorisée.",
	http.StatusRequestEntityTooLarge: "Le fichier dépasse la taille maximale autorisée.",
	http.StatusBadGateway:            "Impossible de contacter le serveur. Vérifiez votre connexion et réessayez.",
	http.StatusServiceUnavailable:    "Service momentanément indisponible.",
	http.StatusGatewayTimeout:        "Le serveur met trop de temps à répondre.",
}

// renderError is the adapter error handler: the error page for browsers,
// JSON for API callers.
func (a *App) renderError(w http.ResponseWriter, r *http.Request, err error) {
	he := response.ToHTTPError(err)
	if he.Status >= http.StatusInternalServerError {
		a.log.ErrorContext(r.Context(), "request failed",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.StatusCode(he.Status),
			logger.Error(err),
		)
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		response.JSONErrorHandler(w, r, err)
		return
	}

	msg, ok := errorMessages[he.Status]
	if !ok {
		msg = authclient.Message(err)
	}
	ctx := handler.NewContext(w, r)
	_ = response.TemplWithStatus(views.Error(views.ErrorData{
		Layout:  a.layout(ctx, "Erreur"),
		Status:  he.Status,
		Message: msg,
	}), he.Status)(w, r)
}
