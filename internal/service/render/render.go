// Package render compiles and renders the Liquid markup stored in email
// templates and landing pages.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/validation"
)

// Engine parses and renders Liquid templates. Parsed templates are cached by
// source text, so repeated previews of the same template skip the parser.
type Engine struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// New returns an engine with the merge-field filters registered.
func New() *Engine {
	e := &Engine{engine: liquid.NewEngine()}

	// {{ first_name | default: "there" }}
	e.engine.RegisterFilter("default", func(value interface{}, fallback string) interface{} {
		if value == nil {
			return fallback
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return fallback
		}
		return value
	})
	e.engine.RegisterFilter("upcase_first", func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})
	return e
}

func (e *Engine) parse(src string) (*liquid.Template, error) {
	if tpl, ok := e.cache.Load(src); ok {
		return tpl.(*liquid.Template), nil
	}
	tpl, err := e.engine.ParseString(src)
	if err != nil {
		return nil, err
	}
	e.cache.Store(src, tpl)
	return tpl, nil
}

// Render renders src with vars.
func (e *Engine) Render(src string, vars map[string]interface{}) (string, error) {
	tpl, err := e.parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	out, err := tpl.RenderString(vars)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// check appends a field error when src does not parse.
func (e *Engine) check(errs validation.Errors, field string, src *string) validation.Errors {
	if src == nil || *src == "" {
		return errs
	}
	if _, err := e.parse(*src); err != nil {
		errs = append(errs, validation.FieldError{Field: field, Message: "invalid template syntax: " + err.Error()})
	}
	return errs
}

func result(errs validation.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckEmailTemplate validates the Liquid syntax of a new template.
func (e *Engine) CheckEmailTemplate(in domain.InsertEmailTemplate) error {
	var errs validation.Errors
	errs = e.check(errs, "subject", &in.Subject)
	errs = e.check(errs, "htmlContent", &in.HTMLContent)
	errs = e.check(errs, "textContent", in.TextContent)
	return result(errs)
}

// CheckEmailTemplateUpdate validates only the fields being changed.
func (e *Engine) CheckEmailTemplateUpdate(u domain.EmailTemplateUpdate) error {
	var errs validation.Errors
	errs = e.check(errs, "subject", u.Subject)
	errs = e.check(errs, "htmlContent", u.HTMLContent)
	errs = e.check(errs, "textContent", u.TextContent)
	return result(errs)
}

// CheckLandingPage validates landing page markup.
func (e *Engine) CheckLandingPage(html *string) error {
	return result(e.check(nil, "htmlContent", html))
}
