package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/validation"
)

func strPtr(s string) *string { return &s }

func TestRender_DefaultFilter(t *testing.T) {
	e := New()
	out, err := e.Render(`Hi {{ first_name | default: "there" }}`, map[string]interface{}{"first_name": ""})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", out)

	out, err = e.Render(`Hi {{ first_name | default: "there" }}`, map[string]interface{}{"first_name": "Tom"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Tom", out)
}

func TestCheckEmailTemplate(t *testing.T) {
	e := New()
	assert.NoError(t, e.CheckEmailTemplate(domain.InsertEmailTemplate{
		Subject: "Hello {{ first_name }}", HTMLContent: "<p>{% if email %}x{% endif %}</p>",
	}))

	err := e.CheckEmailTemplate(domain.InsertEmailTemplate{
		Subject:     "Hello {% if first_name %}",
		HTMLContent: "<p>ok</p>",
		TextContent: strPtr("{% endif %}"),
	})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	require.Len(t, verrs, 2)
	assert.Equal(t, "subject", verrs[0].Field)
	assert.Equal(t, "textContent", verrs[1].Field)
	assert.Contains(t, verrs[0].Message, "invalid template syntax")
}

func TestCheckEmailTemplateUpdate_OnlyChangedFields(t *testing.T) {
	e := New()
	assert.NoError(t, e.CheckEmailTemplateUpdate(domain.EmailTemplateUpdate{}))

	err := e.CheckEmailTemplateUpdate(domain.EmailTemplateUpdate{HTMLContent: strPtr("{% for t in targets %}")})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "htmlContent", verrs[0].Field)
}

func TestCheckLandingPage(t *testing.T) {
	e := New()
	assert.NoError(t, e.CheckLandingPage(nil))
	assert.NoError(t, e.CheckLandingPage(strPtr("<form action='{{ url }}'></form>")))
	assert.Error(t, e.CheckLandingPage(strPtr("{% nosuchtag %}")))
}

func TestPreview(t *testing.T) {
	e := New()
	tpl := &domain.EmailTemplate{
		Subject:     "Action needed, {{ first_name }}",
		HTMLContent: `<a href="{{ url }}">{{ email }}</a> from {{ from_name }}`,
		TextContent: strPtr("{{ position | default: \"Staff\" }}"),
		SenderName:  "IT Desk",
		SenderEmail: "it@acme.test",
	}

	p, err := e.Preview(tpl, &domain.Target{FirstName: "Tom", Email: "tom@acme.test", Position: strPtr("Clerk")})
	require.NoError(t, err)
	assert.Equal(t, "Action needed, Tom", p.Subject)
	assert.Equal(t, `<a href="`+PreviewURL+`">tom@acme.test</a> from IT Desk`, p.HTML)
	require.NotNil(t, p.Text)
	assert.Equal(t, "Clerk", *p.Text)

	sample, err := e.Preview(tpl, nil)
	require.NoError(t, err)
	assert.Equal(t, "Action needed, Jane", sample.Subject)
	assert.Equal(t, "Staff", *sample.Text)
}

func TestPreview_NoText(t *testing.T) {
	p, err := New().Preview(&domain.EmailTemplate{Subject: "s", HTMLContent: "h"}, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Text)
}
