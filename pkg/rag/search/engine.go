package search

import (
	"context"
	"fmt"
	"strings"

	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/pkg/logger"
)

type OutcomeKind string

const (
	OutcomeSuccess            OutcomeKind = "success"
	OutcomeSuggestions        OutcomeKind = "suggestions"
	OutcomeEmptyKnowledgeBase OutcomeKind = "empty_knowledge_base"
)

// Outcome is the result of one retrieval pass. Which fields are set depends on Kind.
type Outcome struct {
	Kind    OutcomeKind
	Query   string
	Message string
	// Route echoes the query back for the UI.
	Route       string
	Context     string
	PdfSnippets []string
	Files       []RelevantFile
	Suggestions []string
	Stats       entity.KnowledgeStats

	MatrixMatches  []*entity.CodeMatrixEntry
	MappingMatches []*entity.ExcelMapping
	PdfMatches     []*entity.PdfFile
}

// PdfContent joins the snippets with a blank line, as fed to the model.
func (o *Outcome) PdfContent() string {
	return strings.Join(o.PdfSnippets, "\n\n")
}

func (o *Outcome) Matched() bool {
	return o.Kind == OutcomeSuccess
}

type Options struct {
	MatrixLimit   int
	MappingLimit  int
	PdfLimit      int
	SnippetLength int
	Locator       LocatorFunc
}

func DefaultOptions() Options {
	return Options{
		MatrixLimit:   5,
		MappingLimit:  3,
		PdfLimit:      3,
		SnippetLength: 500,
	}
}

type Engine struct {
	store  KnowledgeStore
	opts   Options
	logger logger.ILogger
}

func NewEngine(store KnowledgeStore, opts Options, logger logger.ILogger) *Engine {
	defaults := DefaultOptions()
	if opts.MatrixLimit <= 0 {
		opts.MatrixLimit = defaults.MatrixLimit
	}
	if opts.MappingLimit <= 0 {
		opts.MappingLimit = defaults.MappingLimit
	}
	if opts.PdfLimit <= 0 {
		opts.PdfLimit = defaults.PdfLimit
	}
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = defaults.SnippetLength
	}
	return &Engine{store: store, opts: opts, logger: logger}
}

// Search matches query as a literal, case-insensitive substring against every knowledge table.
// Callers must reject blank queries before calling.
func (e *Engine) Search(ctx context.Context, query string) (*Outcome, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("knowledge stats: %w", err)
	}

	if stats.IsEmpty() {
		return &Outcome{
			Kind:    OutcomeEmptyKnowledgeBase,
			Query:   query,
			Message: EmptyKnowledgeBaseMessage,
			Stats:   stats,
		}, nil
	}

	matrix, err := e.store.MatchCodeMatrix(ctx, query, e.opts.MatrixLimit)
	if err != nil {
		return nil, fmt.Errorf("match code matrix: %w", err)
	}

	// All matching mappings feed the file list; only the first few feed the context block.
	mappings, err := e.store.MatchMappings(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("match excel mappings: %w", err)
	}
	contextMappings := mappings
	if len(contextMappings) > e.opts.MappingLimit {
		contextMappings = contextMappings[:e.opts.MappingLimit]
	}

	contentMatches, err := e.store.MatchPdfContent(ctx, query, e.opts.PdfLimit)
	if err != nil {
		return nil, fmt.Errorf("match pdf content: %w", err)
	}

	contextBlock := BuildContextBlock(matrix, contextMappings, e.opts.SnippetLength)
	snippets := BuildPdfSnippets(contentMatches, e.opts.SnippetLength)

	if contextBlock == "" && len(snippets) == 0 {
		suggestions := Suggest(query, AvailabilityFromStats(stats))
		e.logger.Debug("SEARCH", "No direct matches", map[string]interface{}{
			"query":       query,
			"suggestions": suggestions,
		})
		return &Outcome{
			Kind:        OutcomeSuggestions,
			Query:       query,
			Message:     SuggestionsMessage(query),
			Route:       query,
			Suggestions: suggestions,
			Stats:       stats,
		}, nil
	}

	pdfs, err := e.store.MatchPdfFiles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("match pdf files: %w", err)
	}

	files, err := e.resolveFiles(ctx, mappings, pdfs)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("SEARCH", "Matched knowledge", map[string]interface{}{
		"query":    query,
		"matrix":   len(matrix),
		"mappings": len(mappings),
		"pdfs":     len(pdfs),
		"files":    len(files),
	})

	return &Outcome{
		Kind:           OutcomeSuccess,
		Query:          query,
		Message:        SuccessMessage(query),
		Route:          query,
		Context:        contextBlock,
		PdfSnippets:    snippets,
		Files:          files,
		Stats:          stats,
		MatrixMatches:  matrix,
		MappingMatches: mappings,
		PdfMatches:     pdfs,
	}, nil
}

// resolveFiles dedupes the file list, marks which mapping targets really exist and attaches locators.
func (e *Engine) resolveFiles(ctx context.Context, mappings []*entity.ExcelMapping, pdfs []*entity.PdfFile) ([]RelevantFile, error) {
	files := CollectRelevantFiles(mappings, pdfs)

	var unknown []string
	for _, f := range files {
		if !f.Available {
			unknown = append(unknown, f.Filename)
		}
	}
	if len(unknown) > 0 {
		existing, err := e.store.ExistingPdfFilenames(ctx, unknown)
		if err != nil {
			return nil, fmt.Errorf("resolve pdf files: %w", err)
		}
		for i := range files {
			if existing[files[i].Filename] {
				files[i].Available = true
			}
		}
	}

	if e.opts.Locator != nil {
		for i := range files {
			files[i].DownloadURL = e.opts.Locator(files[i].Filename)
		}
	}
	return files, nil
}
