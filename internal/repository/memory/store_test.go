package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
	"github.com/ignite/phishsim/internal/repository/storetest"
)

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.Store { return New() })
}

func TestStore_ConcurrentCreates(t *testing.T) {
	s := New()
	ctx := context.Background()
	org, err := s.CreateOrganization(ctx, domain.InsertOrganization{Name: "acme"})
	require.NoError(t, err)
	g, err := s.CreateGroup(ctx, org.ID, domain.InsertGroup{Name: "all"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateTarget(ctx, org.ID, g.ID, domain.InsertTarget{
				FirstName: "a", LastName: "b", Email: "a@b.test",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	targets, err := s.ListTargets(ctx, org.ID, g.ID)
	require.NoError(t, err)
	require.Len(t, targets, 50)
	for i, tg := range targets {
		assert.Equal(t, int64(i+1), tg.ID)
	}
}

func TestStore_IDsNotReusedAfterDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, err := s.CreateOrganization(ctx, domain.InsertOrganization{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteOrganization(ctx, a.ID))
	b, err := s.CreateOrganization(ctx, domain.InsertOrganization{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, a.ID+1, b.ID)
}
