// Package storetest is the behavioural contract every repository.Store must
// satisfy. Backings call Run from their own tests with a factory that returns
// an empty store.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) repository.Store

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"OrganizationLifecycle", testOrganizationLifecycle},
		{"UpdateAdvancesTimestamp", testUpdateAdvancesTimestamp},
		{"UserEmailUniqueness", testUserEmailUniqueness},
		{"CreateInMissingOrganization", testCreateInMissingOrganization},
		{"GroupTargetCounts", testGroupTargetCounts},
		{"GroupDeleteCascadesTargets", testGroupDeleteCascadesTargets},
		{"TargetCrossTenantRejected", testTargetCrossTenantRejected},
		{"PartialUpdateKeepsOtherFields", testPartialUpdateKeepsOtherFields},
		{"CampaignDefaultsAndCounts", testCampaignDefaultsAndCounts},
		{"CampaignCrossTenantRefs", testCampaignCrossTenantRefs},
		{"CampaignRefsRestrictDelete", testCampaignRefsRestrictDelete},
		{"CampaignDeleteCascadesResults", testCampaignDeleteCascadesResults},
		{"CampaignResultOutcomes", testCampaignResultOutcomes},
		{"CampaignResultDuplicate", testCampaignResultDuplicate},
		{"TargetDeleteCascadesResults", testTargetDeleteCascadesResults},
		{"UserDeleteCascadesContent", testUserDeleteCascadesContent},
		{"UserDeleteBlockedByForeignCampaign", testUserDeleteBlockedByForeignCampaign},
		{"OrganizationDeleteCascades", testOrganizationDeleteCascades},
		{"MissingRows", testMissingRows},
		{"ListsAreScopedAndOrdered", testListsAreScopedAndOrdered},
		{"ReturnedRowsAreCopies", testReturnedRowsAreCopies},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func strPtr(s string) *string { return &s }

// fixture is one organization with one of everything a campaign needs.
type fixture struct {
	org      *domain.Organization
	user     *domain.User
	group    *domain.Group
	target   *domain.Target
	smtp     *domain.SmtpProfile
	template *domain.EmailTemplate
	page     *domain.LandingPage
}

func seed(t *testing.T, s repository.Store, name, email string) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error

	f.org, err = s.CreateOrganization(ctx, domain.InsertOrganization{Name: name})
	require.NoError(t, err)
	f.user, err = s.CreateUser(ctx, f.org.ID, domain.InsertUser{
		Email: email, Password: "hash", FirstName: "Ada", LastName: "Admin", IsAdmin: true,
	})
	require.NoError(t, err)
	f.group, err = s.CreateGroup(ctx, f.org.ID, domain.InsertGroup{Name: "Finance", Description: strPtr("AP team")})
	require.NoError(t, err)
	f.target, err = s.CreateTarget(ctx, f.org.ID, f.group.ID, domain.InsertTarget{
		FirstName: "Tom", LastName: "Target", Email: "tom@" + name + ".test", Position: strPtr("Clerk"),
	})
	require.NoError(t, err)
	f.smtp, err = s.CreateSmtpProfile(ctx, f.org.ID, domain.InsertSmtpProfile{
		Name: "Relay", Host: "smtp.test", Port: 587, Username: "u", Password: "p",
		FromName: "IT", FromEmail: "it@" + name + ".test",
	})
	require.NoError(t, err)
	f.template, err = s.CreateEmailTemplate(ctx, f.org.ID, f.user.ID, domain.InsertEmailTemplate{
		Name: "Reset", Subject: "Reset your password", HTMLContent: "<p>Hi {{first_name}}</p>",
		SenderName: "IT", SenderEmail: "it@" + name + ".test",
	})
	require.NoError(t, err)
	f.page, err = s.CreateLandingPage(ctx, f.org.ID, f.user.ID, domain.InsertLandingPage{
		Name: "Login", HTMLContent: "<form></form>", PageType: domain.PageLogin,
	})
	require.NoError(t, err)
	return f
}

func (f fixture) campaign(t *testing.T, s repository.Store, name string) *domain.Campaign {
	t.Helper()
	c, err := s.CreateCampaign(context.Background(), f.org.ID, f.user.ID, domain.InsertCampaign{
		Name:            name,
		GroupID:         f.group.ID,
		SmtpProfileID:   f.smtp.ID,
		EmailTemplateID: f.template.ID,
		LandingPageID:   f.page.ID,
	})
	require.NoError(t, err)
	return c
}

func testOrganizationLifecycle(t *testing.T, s repository.Store) {
	ctx := context.Background()
	o, err := s.CreateOrganization(ctx, domain.InsertOrganization{Name: "Acme"})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
	assert.Equal(t, time.UTC, o.CreatedAt.Location())

	got, err := s.GetOrganization(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	updated, err := s.UpdateOrganization(ctx, o.ID, domain.OrganizationUpdate{Name: strPtr("Acme Corp")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, o.CreatedAt, updated.CreatedAt)

	all, err := s.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Acme Corp", all[0].Name)
}

func testUpdateAdvancesTimestamp(t *testing.T, s repository.Store) {
	ctx := context.Background()
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := repository.Now
	repository.Now = func() time.Time { return frozen }
	t.Cleanup(func() { repository.Now = orig })

	f := seed(t, s, "acme", "ada@acme.test")
	g1, err := s.UpdateGroup(ctx, f.group.ID, domain.GroupUpdate{Name: strPtr("A")})
	require.NoError(t, err)
	g2, err := s.UpdateGroup(ctx, f.group.ID, domain.GroupUpdate{})
	require.NoError(t, err)

	assert.True(t, g1.UpdatedAt.After(f.group.UpdatedAt))
	assert.True(t, g2.UpdatedAt.After(g1.UpdatedAt))
	assert.Equal(t, frozen, g2.CreatedAt)
}

func testUserEmailUniqueness(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")

	_, err := s.CreateUser(ctx, f.org.ID, domain.InsertUser{
		Email: "ADA@acme.test", Password: "x", FirstName: "B", LastName: "C",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	u, err := s.GetUserByEmail(ctx, " Ada@ACME.test")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, u.ID)
	assert.Equal(t, "acme", u.OrganizationName)
	assert.Equal(t, "hash", u.Password)

	other, err := s.CreateUser(ctx, f.org.ID, domain.InsertUser{
		Email: "bob@acme.test", Password: "x", FirstName: "Bob", LastName: "B",
	})
	require.NoError(t, err)
	_, err = s.UpdateUser(ctx, other.ID, domain.UserUpdate{Email: strPtr("ada@acme.test")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	same, err := s.UpdateUser(ctx, f.user.ID, domain.UserUpdate{Email: strPtr("ada@acme.test")})
	require.NoError(t, err)
	assert.Equal(t, "ada@acme.test", same.Email)

	_, err = s.GetUserByEmail(ctx, "nobody@acme.test")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := s.CountUsers(ctx, f.org.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func testCreateInMissingOrganization(t *testing.T, s repository.Store) {
	ctx := context.Background()
	_, err := s.CreateGroup(ctx, 999, domain.InsertGroup{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.CreateUser(ctx, 999, domain.InsertUser{Email: "a@b.test", Password: "x", FirstName: "a", LastName: "b"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testGroupTargetCounts(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	empty, err := s.CreateGroup(ctx, f.org.ID, domain.InsertGroup{Name: "Empty"})
	require.NoError(t, err)
	_, err = s.CreateTarget(ctx, f.org.ID, f.group.ID, domain.InsertTarget{
		FirstName: "Jo", LastName: "J", Email: "jo@acme.test",
	})
	require.NoError(t, err)

	groups, err := s.ListGroups(ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, f.group.ID, groups[0].ID)
	assert.Equal(t, 2, groups[0].TargetCount)
	assert.Equal(t, "AP team", *groups[0].Description)
	assert.Equal(t, empty.ID, groups[1].ID)
	assert.Equal(t, 0, groups[1].TargetCount)
	assert.Nil(t, groups[1].Description)
}

func testGroupDeleteCascadesTargets(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")

	require.NoError(t, s.DeleteGroup(ctx, f.group.ID))

	_, err := s.GetGroup(ctx, f.group.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetTarget(ctx, f.target.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteGroup(ctx, f.group.ID), domain.ErrNotFound)
}

func testTargetCrossTenantRejected(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := seed(t, s, "acme", "ada@acme.test")
	b := seed(t, s, "beta", "bea@beta.test")

	_, err := s.CreateTarget(ctx, a.org.ID, b.group.ID, domain.InsertTarget{
		FirstName: "X", LastName: "Y", Email: "x@acme.test",
	})
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, []string{repository.RefGroup}, denied.Refs)

	_, err = s.CreateTarget(ctx, a.org.ID, 12345, domain.InsertTarget{
		FirstName: "X", LastName: "Y", Email: "x@acme.test",
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func testPartialUpdateKeepsOtherFields(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")

	tg, err := s.UpdateTarget(ctx, f.target.ID, domain.TargetUpdate{Email: strPtr("new@acme.test")})
	require.NoError(t, err)
	assert.Equal(t, "new@acme.test", tg.Email)
	assert.Equal(t, "Tom", tg.FirstName)
	assert.Equal(t, "Clerk", *tg.Position)

	port := 2525
	p, err := s.UpdateSmtpProfile(ctx, f.smtp.ID, domain.SmtpProfileUpdate{Port: &port})
	require.NoError(t, err)
	assert.Equal(t, 2525, p.Port)
	assert.Equal(t, "smtp.test", p.Host)
	assert.Equal(t, "p", p.Password)

	tpl, err := s.UpdateEmailTemplate(ctx, f.template.ID, domain.EmailTemplateUpdate{TextContent: strPtr("plain")})
	require.NoError(t, err)
	assert.Equal(t, "plain", *tpl.TextContent)
	assert.Equal(t, "Reset your password", tpl.Subject)
	assert.Equal(t, f.user.ID, tpl.CreatedByID)

	edu := domain.PageEducational
	pg, err := s.UpdateLandingPage(ctx, f.page.ID, domain.LandingPageUpdate{
		PageType: &edu, RedirectURL: strPtr("https://training.test"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PageEducational, pg.PageType)
	assert.Equal(t, "https://training.test", *pg.RedirectURL)
	assert.Equal(t, "<form></form>", pg.HTMLContent)
}

func testCampaignDefaultsAndCounts(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	c := f.campaign(t, s, "Q1")

	assert.Equal(t, domain.CampaignDraft, c.Status)
	assert.Equal(t, f.user.ID, c.CreatedByID)
	assert.Nil(t, c.ScheduledAt)

	at := time.Date(2026, 5, 1, 9, 30, 0, 123456789, time.FixedZone("X", 3600))
	active := domain.CampaignActive
	c2, err := s.UpdateCampaign(ctx, c.ID, domain.CampaignUpdate{Status: &active, ScheduledAt: &at})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignActive, c2.Status)
	require.NotNil(t, c2.ScheduledAt)
	assert.Equal(t, *repository.NormalizeTime(&at), *c2.ScheduledAt)

	c3, err := s.UpdateCampaign(ctx, c.ID, domain.CampaignUpdate{EndDate: &at, ClearScheduledAt: true})
	require.NoError(t, err)
	assert.Nil(t, c3.ScheduledAt)
	require.NotNil(t, c3.EndDate)
	c3, err = s.UpdateCampaign(ctx, c.ID, domain.CampaignUpdate{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, c3.EndDate)
	assert.Equal(t, domain.CampaignActive, c3.Status)

	f.campaign(t, s, "Q2")
	n, err := s.CountCampaignsByStatus(ctx, f.org.ID, domain.CampaignActive)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.CountCampaignsByStatus(ctx, f.org.ID, domain.CampaignDraft)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testCampaignCrossTenantRefs(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := seed(t, s, "acme", "ada@acme.test")
	b := seed(t, s, "beta", "bea@beta.test")

	_, err := s.CreateCampaign(ctx, a.org.ID, a.user.ID, domain.InsertCampaign{
		Name:            "Mixed",
		GroupID:         b.group.ID,
		SmtpProfileID:   a.smtp.ID,
		EmailTemplateID: b.template.ID,
		LandingPageID:   9999,
	})
	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, []string{repository.RefGroup, repository.RefEmailTemplate, repository.RefLandingPage}, denied.Refs)

	_, err = s.CreateCampaign(ctx, a.org.ID, b.user.ID, domain.InsertCampaign{
		Name: "Foreign owner", GroupID: a.group.ID, SmtpProfileID: a.smtp.ID,
		EmailTemplateID: a.template.ID, LandingPageID: a.page.ID,
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	c := a.campaign(t, s, "Ok")
	_, err = s.UpdateCampaign(ctx, c.ID, domain.CampaignUpdate{SmtpProfileID: &b.smtp.ID})
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, []string{repository.RefSmtpProfile}, denied.Refs)

	list, err := s.ListCampaigns(ctx, b.org.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testCampaignRefsRestrictDelete(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	c := f.campaign(t, s, "Q1")

	assert.ErrorIs(t, s.DeleteGroup(ctx, f.group.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.DeleteSmtpProfile(ctx, f.smtp.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.DeleteEmailTemplate(ctx, f.template.ID), domain.ErrInUse)
	assert.ErrorIs(t, s.DeleteLandingPage(ctx, f.page.ID), domain.ErrInUse)

	_, err := s.GetTarget(ctx, f.target.ID)
	require.NoError(t, err, "a blocked group delete must not remove targets")

	require.NoError(t, s.DeleteCampaign(ctx, c.ID))
	assert.NoError(t, s.DeleteSmtpProfile(ctx, f.smtp.ID))
	assert.NoError(t, s.DeleteEmailTemplate(ctx, f.template.ID))
	assert.NoError(t, s.DeleteLandingPage(ctx, f.page.ID))
	assert.NoError(t, s.DeleteGroup(ctx, f.group.ID))
}

func testCampaignDeleteCascadesResults(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	c := f.campaign(t, s, "Q1")
	r, err := s.CreateCampaignResult(ctx, f.org.ID, domain.InsertCampaignResult{CampaignID: c.ID, TargetID: f.target.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCampaign(ctx, c.ID))
	_, err = s.GetCampaignResult(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetTarget(ctx, f.target.ID)
	assert.NoError(t, err)
}

func testCampaignResultOutcomes(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	c := f.campaign(t, s, "Q1")
	r, err := s.CreateCampaignResult(ctx, f.org.ID, domain.InsertCampaignResult{CampaignID: c.ID, TargetID: f.target.ID})
	require.NoError(t, err)
	assert.False(t, r.Sent)
	assert.Nil(t, r.SentAt)
	assert.Nil(t, r.SubmittedData)

	yes, no := true, false
	r2, err := s.UpdateCampaignResult(ctx, r.ID, domain.CampaignResultUpdate{
		Sent: &yes, Submitted: &yes, SubmittedData: json.RawMessage(`{"username":"tom"}`),
	})
	require.NoError(t, err)
	assert.True(t, r2.Sent)
	require.NotNil(t, r2.SentAt)
	assert.True(t, r2.Submitted)
	require.NotNil(t, r2.SubmittedAt)
	assert.False(t, r2.Opened)
	assert.JSONEq(t, `{"username":"tom"}`, string(r2.SubmittedData))

	r3, err := s.UpdateCampaignResult(ctx, r.ID, domain.CampaignResultUpdate{Sent: &yes, Submitted: &no})
	require.NoError(t, err)
	assert.Equal(t, *r2.SentAt, *r3.SentAt, "re-setting a flag keeps the first stamp")
	assert.False(t, r3.Submitted)
	assert.Nil(t, r3.SubmittedAt)

	list, err := s.ListCampaignResults(ctx, f.org.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r3.UpdatedAt, list[0].UpdatedAt)

	require.NoError(t, s.DeleteCampaignResult(ctx, r.ID))
	assert.ErrorIs(t, s.DeleteCampaignResult(ctx, r.ID), domain.ErrNotFound)
}

func testCampaignResultDuplicate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := seed(t, s, "acme", "ada@acme.test")
	b := seed(t, s, "beta", "bea@beta.test")
	c := a.campaign(t, s, "Q1")

	in := domain.InsertCampaignResult{CampaignID: c.ID, TargetID: a.target.ID}
	_, err := s.CreateCampaignResult(ctx, a.org.ID, in)
	require.NoError(t, err)
	_, err = s.CreateCampaignResult(ctx, a.org.ID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = s.CreateCampaignResult(ctx, a.org.ID, domain.InsertCampaignResult{CampaignID: c.ID, TargetID: b.target.ID})
	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, []string{repository.RefTarget}, denied.Refs)
}

func testTargetDeleteCascadesResults(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	c := f.campaign(t, s, "Q1")
	r, err := s.CreateCampaignResult(ctx, f.org.ID, domain.InsertCampaignResult{CampaignID: c.ID, TargetID: f.target.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTarget(ctx, f.target.ID))
	_, err = s.GetCampaignResult(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTarget(ctx, f.target.ID), domain.ErrNotFound)
}

func testUserDeleteCascadesContent(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	c := f.campaign(t, s, "Q1")

	require.NoError(t, s.DeleteUser(ctx, f.user.ID))

	_, err := s.GetCampaign(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetEmailTemplate(ctx, f.template.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetLandingPage(ctx, f.page.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetGroup(ctx, f.group.ID)
	assert.NoError(t, err)
}

func testUserDeleteBlockedByForeignCampaign(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")
	bob, err := s.CreateUser(ctx, f.org.ID, domain.InsertUser{
		Email: "bob@acme.test", Password: "x", FirstName: "Bob", LastName: "B",
	})
	require.NoError(t, err)
	_, err = s.CreateCampaign(ctx, f.org.ID, bob.ID, domain.InsertCampaign{
		Name: "Bob's", GroupID: f.group.ID, SmtpProfileID: f.smtp.ID,
		EmailTemplateID: f.template.ID, LandingPageID: f.page.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUser(ctx, f.user.ID), domain.ErrInUse)
	_, err = s.GetUser(ctx, f.user.ID)
	assert.NoError(t, err)
}

func testOrganizationDeleteCascades(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := seed(t, s, "acme", "ada@acme.test")
	b := seed(t, s, "beta", "bea@beta.test")
	c := a.campaign(t, s, "Q1")
	_, err := s.CreateCampaignResult(ctx, a.org.ID, domain.InsertCampaignResult{CampaignID: c.ID, TargetID: a.target.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteOrganization(ctx, a.org.ID))

	_, err = s.GetUser(ctx, a.user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetCampaign(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetSmtpProfile(ctx, a.smtp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	groups, err := s.ListGroups(ctx, b.org.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	orgs, err := s.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, b.org.ID, orgs[0].ID)

	assert.ErrorIs(t, s.DeleteOrganization(ctx, a.org.ID), domain.ErrNotFound)
}

func testMissingRows(t *testing.T, s repository.Store) {
	ctx := context.Background()
	_, err := s.GetCampaign(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateGroup(ctx, 42, domain.GroupUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateCampaign(ctx, 42, domain.CampaignUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateCampaignResult(ctx, 42, domain.CampaignResultUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSmtpProfile(ctx, 42), domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEmailTemplate(ctx, 42), domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteLandingPage(ctx, 42), domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCampaign(ctx, 42), domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, 42), domain.ErrNotFound)
}

func testListsAreScopedAndOrdered(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := seed(t, s, "acme", "ada@acme.test")
	b := seed(t, s, "beta", "bea@beta.test")
	second, err := s.CreateSmtpProfile(ctx, a.org.ID, domain.InsertSmtpProfile{
		Name: "Backup", Host: "h", Port: 25, Username: "u", Password: "p", FromName: "n", FromEmail: "n@acme.test",
	})
	require.NoError(t, err)

	profiles, err := s.ListSmtpProfiles(ctx, a.org.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, a.smtp.ID, profiles[0].ID)
	assert.Equal(t, second.ID, profiles[1].ID)

	targets, err := s.ListTargets(ctx, a.org.ID, b.group.ID)
	require.NoError(t, err)
	assert.NotNil(t, targets)
	assert.Empty(t, targets)

	templates, err := s.ListEmailTemplates(ctx, b.org.ID)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, b.template.ID, templates[0].ID)

	pages, err := s.ListLandingPages(ctx, a.org.ID)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	users, err := s.ListUsers(ctx, b.org.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "beta", users[0].OrganizationName)

	results, err := s.ListCampaignResults(ctx, a.org.ID, 777)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func testReturnedRowsAreCopies(t *testing.T, s repository.Store) {
	ctx := context.Background()
	f := seed(t, s, "acme", "ada@acme.test")

	g, err := s.GetGroup(ctx, f.group.ID)
	require.NoError(t, err)
	*g.Description = "changed"
	g.Name = "changed"

	again, err := s.GetGroup(ctx, f.group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", again.Name)
	assert.Equal(t, "AP team", *again.Description)
}
