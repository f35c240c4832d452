package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/pkg/storage"
	"code-concierge-be/internal/repository/memory"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/internal/service"
	"code-concierge-be/internal/testutil"
	"code-concierge-be/pkg/events"
	"code-concierge-be/pkg/extract"
	"code-concierge-be/pkg/rag/prompt"
	"code-concierge-be/pkg/rag/response"
	"code-concierge-be/pkg/rag/search"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fakeScraper struct {
	pages map[string]*extract.ScrapedPage
}

func (s *fakeScraper) Scrape(ctx context.Context, url string) (*extract.ScrapedPage, error) {
	if page, ok := s.pages[url]; ok {
		return page, nil
	}
	return nil, extract.ErrInvalidURL
}

type fakeAnswerer struct {
	calls     int
	knowledge prompt.Knowledge
	answer    string
}

func (a *fakeAnswerer) Answer(ctx context.Context, message string, knowledge prompt.Knowledge) *response.AnswerResult {
	a.calls++
	a.knowledge = knowledge
	return &response.AnswerResult{Answer: a.answer, Files: knowledge.Files}
}

type fixture struct {
	db        *gorm.DB
	uow       unitofwork.RepositoryFactory
	cache     *memory.StatsCache
	storage   *storage.LocalStorage
	publisher *recordingPublisher
	scraper   *fakeScraper
	answerer  *fakeAnswerer
	knowledge service.IKnowledgeService
	search    service.ISearchService
	chat      service.IChatService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		db:        db,
		uow:       unitofwork.NewRepositoryFactory(db),
		cache:     memory.NewStatsCache(time.Minute),
		storage:   files,
		publisher: &recordingPublisher{},
		scraper:   &fakeScraper{pages: map[string]*extract.ScrapedPage{}},
		answerer:  &fakeAnswerer{answer: "Use the problem canvas."},
	}

	log := logger.NewNopLogger()
	locator := func(name string) string { return "/dl/" + name }
	opts := search.DefaultOptions()
	opts.Locator = locator
	engine := search.NewEngine(search.NewRepositoryStore(f.uow, f.cache), opts, log)

	f.knowledge = service.NewKnowledgeService(f.uow, f.storage, f.scraper, f.publisher, f.cache, log)
	f.search = service.NewSearchService(engine, log)
	f.chat = service.NewChatService(f.uow, engine, f.answerer, locator, log)
	return f
}

func workbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, x.SetSheetRow("Sheet1", ref, &r))
	}
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func archive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func matrixWorkbook(t *testing.T) []byte {
	return workbook(t,
		[]interface{}{"code_block", "filename", "worksheet", "tool", "phase", "canvas", "sublevel", "description"},
		[]interface{}{"CODE12", "framing.pdf", "Problem Framing", "Framer", "Conceptualize", "Problem Canvas", "1", "Frame the problem"},
		[]interface{}{"CODE20", "vpc.pdf", "Value Proposition", "VPC", "Organize", "VPC Canvas", "2", ""},
	)
}

func mappingWorkbook(t *testing.T) []byte {
	return workbook(t,
		[]interface{}{"query_term", "pdf_filename", "category", "description"},
		[]interface{}{"VPC Canvas", "vpc.pdf", "Canvas", "Value proposition canvas"},
	)
}
