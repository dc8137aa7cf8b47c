// Package form decodes HTML form submissions into tagged structs.
//
//	type loginForm struct {
//		Email    string `form:"email" sanitize:"email" validate:"required;email"`
//		Password string `form:"password" validate:"required"`
//	}
//
//	var f loginForm
//	if err := form.Parse(r, &f); err != nil {
//		if ve, ok := form.AsValidation(err); ok {
//			// re-render with ve.Get("email")
//		}
//	}
//
// Validation messages are written in French for display next to the field.
package form
