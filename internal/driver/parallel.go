package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wstok/internal/diag"
	"wstok/internal/observ"
	"wstok/internal/source"
	"wstok/internal/trace"
)

// DefaultExtensions are walked when DirOptions.Extensions is empty.
var DefaultExtensions = []string{".txt"}

// DirOptions controls TokenizeDir.
type DirOptions struct {
	Options
	Extensions []string
	Jobs       int // 0 = GOMAXPROCS
	Progress   ProgressSink
}

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string // путь к файлу
	File   *source.File
	Result *TokenizeResult // nil, если файл не загрузился
	Bag    *diag.Bag
}

// ListFiles возвращает отсортированный список файлов с подходящими расширениями.
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := want[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// TokenizeDir tokenizes every matching file under dir in parallel.
// Load failures become IOLoadFileError diagnostics of that file; only walk
// errors and cancellation abort the run. Results follow path order.
func TokenizeDir(ctx context.Context, dir string, opts DirOptions) (*source.FileSet, []TokenizeDirResult, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "tokenize-dir", 0)
	defer root.End("")
	ctx = trace.WithSpan(ctx, root)

	files, err := ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}
	root.WithExtra("files", strconv.Itoa(len(files)))

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	// Загружаем последовательно: FileSet не потокобезопасен.
	// Для незагрузившихся файлов заводим пустой виртуальный файл, чтобы у диагностики был путь.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	loadTimes := make(map[string]time.Duration, len(files))
	for _, path := range files {
		began := time.Now()
		fileID, err := fileSet.Load(path, opts.loadOptions())
		loadTimes[path] = time.Since(began)
		if err != nil {
			loadErrors[path] = err
			fileID = fileSet.Add(path, nil, source.FileVirtual)
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]TokenizeDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			began := time.Now()
			emit(opts.Progress, Event{File: path, Status: StatusWorking})
			fileSpan := trace.Begin(tracer, trace.ScopeFile, "file:"+filepath.Base(path), root.ID())

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  fmt.Sprintf("failed to load file: %v", loadErr),
					Primary:  source.Span{File: fileIDs[path]},
				})
				results[i] = TokenizeDirResult{Path: path, Bag: bag}
				fileSpan.End("load failed")
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: loadErr, Elapsed: time.Since(began)})
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			timer := observ.NewTimer()
			timer.Record("load", loadTimes[path], len(file.Content), 0, "")

			res := tokenizeFile(trace.WithSpan(gctx, fileSpan), fileSet, file, opts.Options, timer)
			results[i] = TokenizeDirResult{Path: path, File: file, Result: res, Bag: res.Bag}

			fileSpan.WithExtra("tokens", strconv.Itoa(len(res.Tokens))).End("")
			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Status: status, Tokens: len(res.Tokens), Elapsed: time.Since(began)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
