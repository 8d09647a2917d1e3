package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/extraction"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
)

type fakeChatter struct {
	reply   string
	err     error
	context string
	history []extraction.Message
}

func (f *fakeChatter) ChatTurn(_ context.Context, text string, history []extraction.Message, solutionsContext string) (string, error) {
	f.context = solutionsContext
	f.history = history
	return f.reply, f.err
}

type fakeStore struct {
	solutions []model.Solution
	reports   []*model.ResearchReport
	reportErr error
}

func (f *fakeStore) ListCatalog(context.Context) ([]model.Solution, error) {
	return f.solutions, nil
}

func (f *fakeStore) CreateReport(_ context.Context, report *model.ResearchReport, _ store.Requester) error {
	if f.reportErr != nil {
		return f.reportErr
	}
	report.ID = fmt.Sprintf("report-%d", len(f.reports)+1)
	f.reports = append(f.reports, report)
	return nil
}

var buyer = store.Requester{AuthID: "auth-buyer", Email: "buyer@gov.sa"}

func visible(name string, age int) model.Solution {
	return model.Solution{
		SolutionName:           name,
		CompanyName:            "Acme",
		Summary:                name + " summary",
		TechCategories:         model.StringList{"Computer Vision"},
		TechApprovalStatus:     model.StatusApproved,
		BusinessApprovalStatus: model.StatusApproved,
		CreatedAt:              time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(age) * time.Hour),
	}
}

func TestChatAnswersWithoutSaving(t *testing.T) {
	chatter := &fakeChatter{reply: "Try **Vision**."}
	st := &fakeStore{solutions: []model.Solution{visible("Vision", 1)}}
	svc := NewService(chatter, st, NewMemoryLimiter(5))

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message: "Which solution reads licence plates?",
		History: []extraction.Message{{Role: "system", Text: "ignored"}, {Role: "user", Text: "hi"}},
	}, buyer)
	require.NoError(t, err)
	assert.Equal(t, "Try **Vision**.", resp.Reply)
	assert.Nil(t, resp.Report)
	assert.Equal(t, 4, resp.Remaining)
	assert.Empty(t, st.reports)
	assert.Contains(t, chatter.context, "Vision by Acme")
	assert.Equal(t, []extraction.Message{{Role: "user", Text: "hi"}}, chatter.history)
}

func TestChatSavesReports(t *testing.T) {
	for _, tc := range []struct {
		name    string
		req     ChatRequest
		trigger string
	}{
		{"keyword", ChatRequest{Message: "Give me a report on vision vendors"}, "keyword"},
		{"explicit", ChatRequest{Message: "Which vendors do vision?", SaveReport: true}, "explicit"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			st := &fakeStore{solutions: []model.Solution{visible("Vision", 1)}}
			svc := NewService(&fakeChatter{reply: "# Findings"}, st, NewMemoryLimiter(5))

			resp, err := svc.Chat(context.Background(), tc.req, buyer)
			require.NoError(t, err)
			require.NotNil(t, resp.Report)
			require.Len(t, st.reports, 1)
			assert.Equal(t, tc.req.Message, resp.Report.Title)
			assert.Equal(t, "# Findings", resp.Report.Content)

			assert.Equal(t, tc.trigger, resp.Report.Metadata["trigger"])
			assert.Equal(t, 1, resp.Report.Metadata["solutions"])
		})
	}
}

func TestChatReportFailureKeepsAnswer(t *testing.T) {
	st := &fakeStore{reportErr: errors.New("db down")}
	svc := NewService(&fakeChatter{reply: "answer"}, st, NewMemoryLimiter(5))

	resp, err := svc.Chat(context.Background(), ChatRequest{Message: "analysis please", SaveReport: true}, buyer)
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Reply)
	assert.Nil(t, resp.Report)
}

func TestChatErrors(t *testing.T) {
	svc := NewService(&fakeChatter{err: errors.New("upstream 529")}, &fakeStore{}, NewMemoryLimiter(1))
	ctx := context.Background()

	_, err := svc.Chat(ctx, ChatRequest{Message: "hi"}, store.Requester{})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = svc.Chat(ctx, ChatRequest{Message: "  "}, buyer)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Chat(ctx, ChatRequest{Message: "hi"}, buyer)
	require.Error(t, err)
	assert.Equal(t, 500, apperr.Status(err))

	_, err = svc.Chat(ctx, ChatRequest{Message: "hi"}, buyer)
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
	assert.Equal(t, 429, apperr.Status(err))
}

func TestMemoryLimiterResetsDaily(t *testing.T) {
	l := NewMemoryLimiter(2)
	now := time.Date(2025, 5, 1, 23, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	left, err := l.Consume(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, left)
	left, err = l.Consume(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, left)
	_, err = l.Consume(ctx, "u1")
	assert.ErrorIs(t, err, ErrLimitReached)

	left, err = l.Consume(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	now = now.Add(2 * time.Hour)
	left, err = l.Consume(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, left)
	assert.Len(t, l.counts, 1, "previous days are dropped")
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	l := NewRedisLimiter(rdb, 2)
	user := fmt.Sprintf("limiter-test-%d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(ctx, l.key(user)) })

	left, err := l.Consume(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, left)
	_, err = l.Consume(ctx, user)
	require.NoError(t, err)
	_, err = l.Consume(ctx, user)
	assert.ErrorIs(t, err, ErrLimitReached)

	n, err := rdb.Get(ctx, l.key(user)).Int()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBuildContext(t *testing.T) {
	var solutions []model.Solution
	for i := 0; i < 12; i++ {
		solutions = append(solutions, visible(fmt.Sprintf("S%02d", i), i))
	}
	hidden := visible("Hidden", 0)
	hidden.BusinessApprovalStatus = model.StatusPending
	solutions = append(solutions, hidden)

	digest := BuildContext(solutions)
	assert.Contains(t, digest, "1. S00 by Acme")
	assert.Contains(t, digest, "10. S09")
	assert.NotContains(t, digest, "S10")
	assert.NotContains(t, digest, "Hidden")
	assert.Contains(t, digest, "Technology: Computer Vision")

	assert.Equal(t, "(no solutions are currently listed)", BuildContext(nil))
}

func TestRenderReportHTML(t *testing.T) {
	out, err := RenderReportHTML("# Findings\n\n| Vendor | Score |\n|---|---|\n| Acme | 9 |\n\n<script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Findings</h1>")
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
}

func TestReportTitle(t *testing.T) {
	assert.Equal(t, "compare vision vendors", reportTitle("  compare\n vision   vendors "))
	long := reportTitle(strings.Repeat("x", 100))
	assert.Equal(t, maxTitleLength+3, len([]rune(long)))
}
