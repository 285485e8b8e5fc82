package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/validation"
	"github.com/ignite/phishsim/internal/repository/memory"
	"github.com/ignite/phishsim/internal/service/importer"
)

type fixture struct {
	store *memory.Store
	org   *domain.Organization
	group *domain.Group
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	org, err := s.CreateOrganization(ctx, domain.InsertOrganization{Name: "acme"})
	require.NoError(t, err)
	g, err := s.CreateGroup(ctx, org.ID, domain.InsertGroup{Name: "Finance"})
	require.NoError(t, err)
	return fixture{store: s, org: org, group: g}
}

func TestImport_PerRowIsolation(t *testing.T) {
	f := setup(t)
	svc := importer.NewService(f.store, 0)

	csv := "email,firstName,lastName\n" +
		"a@x.com,A,X\n" +
		",B,\n"
	res, err := svc.Import(context.Background(), f.org.ID, f.group.ID, []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "lastName")
	assert.Contains(t, res.Errors[0].Error, "email")

	targets, err := f.store.ListTargets(context.Background(), f.org.ID, f.group.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "a@x.com", targets[0].Email)
}

func TestImport_HeaderAliases(t *testing.T) {
	f := setup(t)
	svc := importer.NewService(f.store, 0)

	csv := "\xef\xbb\xbfFirst_Name, LASTNAME ,Email,Title,Department\n" +
		"Tom,Target,tom@acme.test,Clerk,Finance\n" +
		"Ann,Other,ann@acme.test,,Ops\n"
	res, err := svc.Import(context.Background(), f.org.ID, f.group.ID, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Zero(t, res.Failed)
	assert.Nil(t, res.Errors)

	targets, err := f.store.ListTargets(context.Background(), f.org.ID, f.group.ID)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "Tom", targets[0].FirstName)
	assert.Equal(t, "Target", targets[0].LastName)
	require.NotNil(t, targets[0].Position)
	assert.Equal(t, "Clerk", *targets[0].Position)
	assert.Nil(t, targets[1].Position)
}

func TestImport_InvalidEmailRow(t *testing.T) {
	f := setup(t)
	res, err := importer.NewService(f.store, 0).Import(context.Background(), f.org.ID, f.group.ID,
		[]byte("firstname,lastname,email\nA,B,not-an-email\nC,D,c@d.test\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "email: must be a valid email address", res.Errors[0].Error)
}

func TestImport_MalformedCSVRejectsWholeFile(t *testing.T) {
	f := setup(t)
	csv := "firstName,lastName,email\nA,B,a@b.test\nC,D\n"
	_, err := importer.NewService(f.store, 0).Import(context.Background(), f.org.ID, f.group.ID, []byte(csv))

	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "file", verrs[0].Field)

	targets, err := f.store.ListTargets(context.Background(), f.org.ID, f.group.ID)
	require.NoError(t, err)
	assert.Empty(t, targets, "nothing is written when the file does not parse")
}

func TestImport_GroupAccess(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	other, err := f.store.CreateOrganization(ctx, domain.InsertOrganization{Name: "beta"})
	require.NoError(t, err)
	svc := importer.NewService(f.store, 0)

	_, err = svc.Import(ctx, other.ID, f.group.ID, []byte("email\n"))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Import(ctx, f.org.ID, 999, []byte("email\n"))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestImport_EmptyFile(t *testing.T) {
	f := setup(t)
	res, err := importer.NewService(f.store, 0).Import(context.Background(), f.org.ID, f.group.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, &importer.Result{}, res)
}

// flakyRepo fails CreateTarget for one email.
type flakyRepo struct {
	importer.Repository
	failEmail string
}

func (r flakyRepo) CreateTarget(ctx context.Context, orgID, groupID int64, in domain.InsertTarget) (*domain.Target, error) {
	if in.Email == r.failEmail {
		return nil, errors.New("connection reset")
	}
	return r.Repository.CreateTarget(ctx, orgID, groupID, in)
}

func TestImport_StoreFailureIsRowError(t *testing.T) {
	f := setup(t)
	svc := importer.NewService(flakyRepo{Repository: f.store, failEmail: "b@x.test"}, 0)

	csv := "firstName,lastName,email\nA,A,a@x.test\nB,B,b@x.test\nC,C,c@x.test\n"
	res, err := svc.Import(context.Background(), f.org.ID, f.group.ID, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []importer.RowError{{Row: 3, Error: "could not save row"}}, res.Errors)
	assert.NotContains(t, res.Errors[0].Error, "connection reset")
}

func TestImportReader_SizeLimit(t *testing.T) {
	f := setup(t)
	svc := importer.NewService(f.store, 32)
	assert.Equal(t, int64(32), svc.MaxBytes())

	_, err := svc.ImportReader(context.Background(), f.org.ID, f.group.ID,
		strings.NewReader("firstName,lastName,email\nAlexandra,Longname,alexandra@example.test\n"))
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "file", verrs[0].Field)

	res, err := svc.ImportReader(context.Background(), f.org.ID, f.group.ID, strings.NewReader("email\n"))
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
}
