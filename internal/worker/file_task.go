package worker

import (
	"context"
	"fmt"

	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/processor"
	"github.com/patternforge/patternforge/internal/rules"
)

// FileScanner runs a compiled rule catalog against one file's content.
// internal/processor.Processor satisfies this.
type FileScanner interface {
	AnalyzeFile(ctx context.Context, content string, meta processor.FileMetadata, lang langregistry.Info, tagFilter *rules.TagFilter, symbols processor.SymbolLookup) (processor.FileResult, error)
}

// FileTask scans one file through a FileScanner and records the result
// for the caller to collect once the pool drains.
type FileTask struct {
	id      string
	content string
	meta    processor.FileMetadata
	lang    langregistry.Info
	scanner FileScanner
	tags    *rules.TagFilter
	symbols processor.SymbolLookup

	result processor.FileResult
}

// NewFileTask creates a task that analyzes one file through scanner.
// tags and symbols may be nil, matching AnalyzeFile's own nil handling.
func NewFileTask(content string, meta processor.FileMetadata, lang langregistry.Info, scanner FileScanner, tags *rules.TagFilter, symbols processor.SymbolLookup) *FileTask {
	return &FileTask{
		id:      fmt.Sprintf("file:%s", meta.Path),
		content: content,
		meta:    meta,
		lang:    lang,
		scanner: scanner,
		tags:    tags,
		symbols: symbols,
	}
}

// ID returns the task identifier.
func (t *FileTask) ID() string {
	return t.id
}

// Execute runs AnalyzeFile and stashes its result for Result to return.
func (t *FileTask) Execute(ctx context.Context) error {
	result, err := t.scanner.AnalyzeFile(ctx, t.content, t.meta, t.lang, t.tags, t.symbols)
	if err != nil {
		return err
	}
	t.result = result
	return nil
}

// Result returns the file scan result gathered by Execute.
func (t *FileTask) Result() processor.FileResult {
	return t.result
}

// FilePath returns the path of the file being scanned.
func (t *FileTask) FilePath() string {
	return t.meta.Path
}

// BatchTask represents a batch of tasks to be executed.
type BatchTask struct {
	id    string
	tasks []Task
}

// NewBatchTask creates a new batch task.
func NewBatchTask(id string, tasks []Task) *BatchTask {
	return &BatchTask{
		id:    id,
		tasks: tasks,
	}
}

// ID returns the batch task identifier.
func (b *BatchTask) ID() string {
	return b.id
}

// Execute executes all tasks in the batch sequentially.
func (b *BatchTask) Execute(ctx context.Context) error {
	for _, task := range b.tasks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := task.Execute(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// FuncTask wraps a function as a task.
type FuncTask struct {
	id string
	fn func(ctx context.Context) error
}

// NewFuncTask creates a task from a function.
func NewFuncTask(id string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id: id,
		fn: fn,
	}
}

// ID returns the task identifier.
func (f *FuncTask) ID() string {
	return f.id
}

// Execute executes the function.
func (f *FuncTask) Execute(ctx context.Context) error {
	return f.fn(ctx)
}
