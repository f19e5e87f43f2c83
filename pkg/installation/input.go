package installation

import (
	"strings"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/validation"
)

// Input is the administrator form submission
type Input struct {
	Email    string `json:"email"`
	Password string `json:"-"`
	Fullname string `json:"fullname"`
	SiteName string `json:"site_name"`
}

// Rules are the field rules an Input must satisfy
var Rules = validation.Rules{
	"email":     {validation.Required, validation.Email},
	"password":  {validation.Required},
	"fullname":  {validation.Required},
	"site_name": {validation.Required},
}

// Fields returns the input keyed by form field name
func (in Input) Fields() map[string]string {
	return map[string]string{
		"email":     in.Email,
		"password":  in.Password,
		"fullname":  in.Fullname,
		"site_name": in.SiteName,
	}
}

// Normalize trims surrounding whitespace from every field but the password
func (in Input) Normalize() Input {
	in.Email = strings.TrimSpace(in.Email)
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.SiteName = strings.TrimSpace(in.SiteName)
	return in
}
