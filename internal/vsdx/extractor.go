package vsdx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// maxConsecutivePersistFailures bounds how many persist failures in a row are
// tolerated before the run is treated as an unwritable output directory. Isolated
// write failures stay per-entry; a systemic one must not lose the extraction one
// file at a time.
const maxConsecutivePersistFailures = 3

// Extractor extracts classified XML parts from a VSDX archive to an output directory.
type Extractor struct {
	logger  *zap.Logger
	workers int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a logger for per-part debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithWorkers sets the number of concurrent entry workers. Values <= 1 select the
// single-threaded path. Output paths and ordinals are pre-computed from archive
// enumeration order before dispatch, so results are identical at any worker count.
func WithWorkers(n int) Option {
	return func(e *Extractor) { e.workers = n }
}

// NewExtractor returns an Extractor. With no options it is single-threaded and silent.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// entryPlan is the per-entry work order, fixed before any processing starts.
type entryPlan struct {
	file    *zip.File
	kind    Kind
	ordinal int // 1-based within kind, archive enumeration order
	outPath string
}

// entryOutcome is what processing one entry produced: a part, or a diagnostic.
type entryOutcome struct {
	part       *Part
	diag       *Diagnostic
	persistErr bool
}

// Extract opens inputPath as a ZIP archive, classifies each entry by path
// convention, parses classified entries as XML, persists their raw bytes under
// outputDir, and returns the aggregate Result. The archive is closed before
// return, success or failure. Fatal conditions (unreadable archive, unusable
// output directory) yield Success=false with empty part slices; per-entry parse
// and write failures are isolated into Result.Diagnostics and never abort the
// remaining entries. Re-running over the same output directory is idempotent:
// ordinals depend only on enumeration order, so each run overwrites the same files.
func (e *Extractor) Extract(inputPath, outputDir string) *Result {
	archive, err := zip.OpenReader(inputPath)
	if err != nil {
		return e.failure(outputDir, ErrArchiveOpen, fmt.Sprintf("%v: %s: %v", ErrArchiveOpen, inputPath, err))
	}
	defer archive.Close()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return e.failure(outputDir, ErrOutputDir, fmt.Sprintf("%v: create %s: %v", ErrOutputDir, outputDir, err))
	}

	plans, dupDiags := planEntries(&archive.Reader, outputDir)
	outcomes := make([]entryOutcome, len(plans))

	if e.workers > 1 {
		// Each worker reads a distinct entry through its own zip.File reader and
		// writes to a distinct output path and a distinct outcome slot, so the only
		// coordination point is the join.
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.workers)
		for i := range plans {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				outcomes[i] = e.processEntry(plans[i])
				<-sem
			}(i)
		}
		wg.Wait()
	} else {
		for i := range plans {
			outcomes[i] = e.processEntry(plans[i])
		}
	}

	return e.assemble(outputDir, plans, outcomes, dupDiags)
}

// planEntries enumerates the archive and assigns kind, ordinal, and output path to
// every classified entry, in archive index order. Unclassified entries are skipped
// outright. A second document-properties or document part is skipped with a
// diagnostic so the zero-or-one result shape holds.
func planEntries(r *zip.Reader, outputDir string) ([]entryPlan, []Diagnostic) {
	var plans []entryPlan
	var diags []Diagnostic
	var pageN, masterN int
	haveProps, haveDoc := false, false

	for _, f := range r.File {
		kind := Classify(f.Name)
		plan := entryPlan{file: f, kind: kind}
		switch kind {
		case KindPage:
			pageN++
			plan.ordinal = pageN
			plan.outPath = filepath.Join(outputDir, "pages", fmt.Sprintf("page%d.xml", pageN))
		case KindMaster:
			masterN++
			plan.ordinal = masterN
			plan.outPath = filepath.Join(outputDir, "masters", fmt.Sprintf("master%d.xml", masterN))
		case KindDocumentProperties:
			if haveProps {
				diags = append(diags, Diagnostic{SourcePath: f.Name, Kind: kind,
					Message: "duplicate document properties part, keeping first"})
				continue
			}
			haveProps = true
			plan.ordinal = 1
			plan.outPath = filepath.Join(outputDir, "app_properties.xml")
		case KindDocument:
			if haveDoc {
				diags = append(diags, Diagnostic{SourcePath: f.Name, Kind: kind,
					Message: "duplicate document part, keeping first"})
				continue
			}
			haveDoc = true
			plan.ordinal = 1
			plan.outPath = filepath.Join(outputDir, "document.xml")
		default:
			continue
		}
		plans = append(plans, plan)
	}
	return plans, diags
}

// processEntry reads, parses, and persists one planned entry. Failures come back
// as a diagnostic, never an error: per-entry isolation is the point.
func (e *Extractor) processEntry(plan entryPlan) entryOutcome {
	data, err := readEntry(plan.file)
	if err != nil {
		return entryOutcome{diag: &Diagnostic{SourcePath: plan.file.Name, Kind: plan.kind,
			Message: fmt.Sprintf("read part: %v", err)}}
	}

	root, err := ParseTree(data)
	if err != nil {
		return entryOutcome{diag: &Diagnostic{SourcePath: plan.file.Name, Kind: plan.kind,
			Message: fmt.Sprintf("malformed xml: %v", err)}}
	}

	// Persist the original raw bytes, never a re-serialization of the parsed tree.
	if err := persistEntry(plan.outPath, data); err != nil {
		return entryOutcome{persistErr: true, diag: &Diagnostic{SourcePath: plan.file.Name, Kind: plan.kind,
			Message: fmt.Sprintf("write %s: %v", plan.outPath, err)}}
	}

	part := &Part{
		Kind:       plan.kind,
		SourcePath: plan.file.Name,
		Name:       partName(root, plan),
		Elements:   root.CountElements() - 1,
		OutputPath: plan.outPath,
		Bytes:      len(data),
	}
	if e.logger != nil {
		e.logger.Debug("extracted part",
			zap.String("kind", string(plan.kind)),
			zap.String("source", plan.file.Name),
			zap.Int("elements", part.Elements),
		)
	}
	return entryOutcome{part: part}
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// persistEntry writes data to outPath, creating parent directories as needed.
// A failed write removes the partial file so a fatal escalation never leaves a
// half-written entry behind.
func persistEntry(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		_ = os.Remove(outPath)
		return err
	}
	return nil
}

// partName resolves the display name: explicit name from the XML when recoverable,
// else the 1-based ordinal within the kind.
func partName(root *Node, plan entryPlan) string {
	if name := displayName(root); name != "" {
		return name
	}
	switch plan.kind {
	case KindPage:
		return fmt.Sprintf("Page %d", plan.ordinal)
	case KindMaster:
		return fmt.Sprintf("Master %d", plan.ordinal)
	default:
		return strings.TrimSuffix(filepath.Base(plan.file.Name), ".xml")
	}
}

// assemble folds per-entry outcomes into the Result, in enumeration order.
// A run of consecutive persist failures escalates to a fatal output-directory
// error; anything less stays diagnostic-only.
func (e *Extractor) assemble(outputDir string, plans []entryPlan, outcomes []entryOutcome, diags []Diagnostic) *Result {
	result := &Result{Success: true, OutputDir: outputDir}
	consecutive := 0
	for i, out := range outcomes {
		if out.persistErr {
			consecutive++
			if consecutive >= maxConsecutivePersistFailures {
				return e.failure(outputDir, ErrOutputDir,
					fmt.Sprintf("%v: %d consecutive write failures, last on %s",
						ErrOutputDir, consecutive, plans[i].file.Name))
			}
		} else {
			consecutive = 0
		}
		if out.diag != nil {
			diags = append(diags, *out.diag)
			continue
		}
		switch plans[i].kind {
		case KindPage:
			result.Pages = append(result.Pages, *out.part)
		case KindMaster:
			result.Masters = append(result.Masters, *out.part)
		case KindDocumentProperties:
			result.AppProperties = out.part
		case KindDocument:
			result.Document = out.part
		}
	}
	result.Diagnostics = diags
	if e.logger != nil {
		e.logger.Info("extraction complete",
			zap.String("output_dir", outputDir),
			zap.Int("pages", len(result.Pages)),
			zap.Int("masters", len(result.Masters)),
			zap.Int("diagnostics", len(result.Diagnostics)),
		)
	}
	return result
}

func (e *Extractor) failure(outputDir string, category error, msg string) *Result {
	if e.logger != nil {
		e.logger.Warn("extraction failed", zap.String("error", msg))
	}
	return &Result{Success: false, OutputDir: outputDir, Error: msg, Err: category}
}
