package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/detect"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/expand"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/layout"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// traceLinkConfidence scores the same-page requirement→compliance links the
// pipeline emits.
const traceLinkConfidence = 0.7

// ExtractionConfig holds tunables for the per-document pipeline.
type ExtractionConfig struct {
	Concurrency  int
	MaxSentences int
	MaxChars     int
}

// ExtractionService runs the per-document pipeline: structure → chunks →
// detection → context expansion → bounding-box resolution → trace links.
type ExtractionService interface {
	Extract(ctx context.Context, input port.StructureInput) (*domain.ExtractionResult, error)
	ExtractFromStructure(ctx context.Context, doc *domain.DocumentStructure) (*domain.ExtractionResult, error)
}

type extractionService struct {
	provider port.DocumentStructureProvider
	redactor port.Redactor
	policies port.PolicyRetriever
	cfg      ExtractionConfig
}

// NewExtractionService creates a new ExtractionService implementation.
// Redactor and PolicyRetriever are optional; pass nil to skip those steps.
func NewExtractionService(provider port.DocumentStructureProvider, redactor port.Redactor, policies port.PolicyRetriever, cfg ExtractionConfig) ExtractionService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	defaults := expand.DefaultOptions()
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = defaults.MaxSentences
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaults.MaxChars
	}
	return &extractionService{
		provider: provider,
		redactor: redactor,
		policies: policies,
		cfg:      cfg,
	}
}

func (s *extractionService) Extract(ctx context.Context, input port.StructureInput) (*domain.ExtractionResult, error) {
	doc, err := s.provider.ExtractStructure(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("extractionService.Extract: %w", err)
	}
	return s.ExtractFromStructure(ctx, doc)
}

func (s *extractionService) ExtractFromStructure(ctx context.Context, doc *domain.DocumentStructure) (*domain.ExtractionResult, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	chunks := s.buildChunks(ctx, doc)
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunks
	}

	// Detection is sequential so requirement ids stay monotonic across the
	// whole document. Expansion and resolution are pure per-chunk work and
	// run in parallel afterward.
	detector := detect.NewDetector()
	for i := range chunks {
		s.detectChunk(ctx, detector, &chunks[i])
	}

	s.expandAndResolve(doc, chunks)

	for i := range chunks {
		linkChunk(&chunks[i])
	}

	result := &domain.ExtractionResult{
		DocumentName: doc.Name,
		Chunks:       chunks,
		Summary:      summarize(doc, chunks),
	}
	log.Printf("extractionService.ExtractFromStructure: %s: %d chunks, %d requirements, %d compliance mentions",
		doc.Name, result.Summary.TotalChunks, result.Summary.TotalRequirements, result.Summary.TotalCompliance)
	return result, nil
}

// buildChunks produces one page-scoped chunk per non-empty page.
func (s *extractionService) buildChunks(ctx context.Context, doc *domain.DocumentStructure) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(doc.Pages))
	offset := 0
	for _, page := range doc.Pages {
		if page.Text == "" {
			continue
		}
		chunk := domain.Chunk{
			ID:         fmt.Sprintf("chunk_%03d", len(chunks)+1),
			PageNumber: page.Number,
			Text:       page.Text,
			TextAnchor: &domain.TextAnchor{Start: offset, End: offset + len(page.Text)},
			Labels:     detect.ClassifyLabels(page.Text),
		}
		offset += len(page.Text) + 1
		chunks = append(chunks, chunk)
	}
	return chunks
}

// detectChunk runs compliance and requirement detection on one chunk. When a
// redactor is configured its masked variant feeds the detector; the chunk's
// stored text is never altered.
func (s *extractionService) detectChunk(ctx context.Context, detector *detect.Detector, chunk *domain.Chunk) {
	text := chunk.Text
	if s.redactor != nil {
		masked, err := s.redactor.Redact(ctx, text)
		if err != nil {
			log.Printf("extractionService.detectChunk: redaction failed for %s, using raw text: %v", chunk.ID, err)
		} else {
			text = masked
		}
	}

	chunk.Compliance = detect.DetectCompliance(text)
	chunk.Requirements = detector.Detect(text)

	if s.policies != nil {
		s.applyPolicyHints(ctx, chunk)
	}
}

// applyPolicyHints appends compliance mentions suggested by the retrieval
// service, skipping regimes the detector already reported for this chunk.
func (s *extractionService) applyPolicyHints(ctx context.Context, chunk *domain.Chunk) {
	snippets, err := s.policies.MatchPolicies(ctx, chunk.Text)
	if err != nil {
		log.Printf("extractionService.applyPolicyHints: policy retrieval failed for %s: %v", chunk.ID, err)
		return
	}
	seen := make(map[string]bool, len(chunk.Compliance))
	for _, c := range chunk.Compliance {
		seen[c.Name] = true
	}
	for _, sn := range snippets {
		if sn.Regime == "" || seen[sn.Regime] {
			continue
		}
		seen[sn.Regime] = true
		chunk.Compliance = append(chunk.Compliance, domain.DetectedComplianceStandard{Name: sn.Regime})
	}
}

// expandAndResolve runs context expansion and bounding-box resolution for
// every chunk, bounded by the configured concurrency. Both steps are pure,
// so page ordering does not matter here.
func (s *extractionService) expandAndResolve(doc *domain.DocumentStructure, chunks []domain.Chunk) {
	elementsByPage := make(map[int][]domain.LayoutElement, len(doc.Pages))
	for _, page := range doc.Pages {
		elementsByPage[page.Number] = page.Elements
	}
	opts := expand.Options{MaxSentences: s.cfg.MaxSentences, MaxChars: s.cfg.MaxChars}

	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	for i := range chunks {
		chunk := &chunks[i]
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			elements := elementsByPage[chunk.PageNumber]
			for j := range chunk.Requirements {
				req := &chunk.Requirements[j]
				req.Text = expand.Expand(req.Text, chunk.Text, opts)
				req.BoundingBox = layout.Resolve(req.Text, elements)
			}
		}()
	}
	wg.Wait()
}

// linkChunk emits one same-page trace link per (requirement, compliance)
// pair found in the chunk.
func linkChunk(chunk *domain.Chunk) {
	for _, req := range chunk.Requirements {
		for _, comp := range chunk.Compliance {
			target := comp.CanonicalID
			if target == "" {
				target = comp.Name
			}
			chunk.TraceLinks = append(chunk.TraceLinks, domain.TraceLink{
				SourceID:    req.ID,
				TargetID:    target,
				TargetClass: domain.NodeComplianceStandard,
				Relation:    domain.RelationRequiresCompliance,
				Confidence:  traceLinkConfidence,
				Page:        chunk.PageNumber,
			})
		}
	}
}

func summarize(doc *domain.DocumentStructure, chunks []domain.Chunk) domain.ExtractionSummary {
	summary := domain.ExtractionSummary{
		TotalPages:  len(doc.Pages),
		TotalChunks: len(chunks),
		TextLength:  len(doc.Text),
	}
	for _, chunk := range chunks {
		summary.TotalRequirements += len(chunk.Requirements)
		summary.TotalCompliance += len(chunk.Compliance)
		summary.TotalTraceLinks += len(chunk.TraceLinks)
		for _, req := range chunk.Requirements {
			if req.BoundingBox != nil {
				summary.RequirementsWithBBox++
			}
		}
	}
	summary.GraphReady = summary.TotalRequirements > 0
	return summary
}
