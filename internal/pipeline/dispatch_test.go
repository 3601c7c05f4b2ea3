package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobradar/internal/db"
	"github.com/jonathan/jobradar/internal/queue"
)

type fakeCompanies struct {
	list []db.Company
}

func (f *fakeCompanies) ListActiveCompanies(context.Context) ([]db.Company, error) {
	return f.list, nil
}

func TestDispatchFetchQueuesEachCompany(t *testing.T) {
	companies := &fakeCompanies{list: []db.Company{
		{ATS: "greenhouse", Slug: "acme"},
		{ATS: "lever", Slug: "globex"},
		{ATS: "ashby", Slug: "initech"},
	}}
	q := &fakeQueue{}

	queued, err := DispatchFetch(context.Background(), companies, q, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, queued)
	require.Len(t, q.tasks, 3)
	assert.Equal(t, queue.KindFetch, q.tasks[0].Kind)
	assert.Equal(t, "acme", q.tasks[0].Company)
}

func TestDispatchFetchSkipsAlreadyPending(t *testing.T) {
	companies := &fakeCompanies{list: []db.Company{
		{ATS: "greenhouse", Slug: "acme"},
	}}
	q := &fakeQueue{}

	first, err := DispatchFetch(context.Background(), companies, q, 0)
	require.NoError(t, err)
	second, err := DispatchFetch(context.Background(), companies, q, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second, "pending company is not queued twice")
}

func TestDispatchFetchHonorsLimit(t *testing.T) {
	companies := &fakeCompanies{list: []db.Company{
		{ATS: "greenhouse", Slug: "a"},
		{ATS: "greenhouse", Slug: "b"},
		{ATS: "greenhouse", Slug: "c"},
	}}
	q := &fakeQueue{}

	queued, err := DispatchFetch(context.Background(), companies, q, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, queued)
}
