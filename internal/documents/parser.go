package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/logger"
)

const (
	StatusCompleted = "completed"
	StatusSuccess   = "success"
	StatusError     = "error"

	invalidTypeMessage = "Invalid file type. Only PDF or DOC/DOCX files are allowed."
)

var (
	ErrNoFiles      = errors.New("at least one file must be provided")
	ErrTooManyFiles = errors.New("too many files")
)

// ResumeExtractor turns CV text into structured data.
type ResumeExtractor interface {
	ExtractResume(ctx context.Context, text string) (*ai.ResumeExtraction, error)
}

// TextExtractor reads the text of a stored file.
type TextExtractor func(path string) (string, error)

// File is one uploaded document.
type File struct {
	FileName string `json:"file_name" validate:"required"`
	FileData string `json:"file_data" validate:"required"`
}

type FileResult struct {
	FileName      string               `json:"file_name"`
	Status        string               `json:"status"`
	ExtractedInfo *ai.ResumeExtraction `json:"extracted_info,omitempty"`
	Error         string               `json:"error,omitempty"`
}

type Result struct {
	Status                string       `json:"status"`
	ProcessedFiles        int          `json:"processed_files"`
	SuccessfulExtractions int          `json:"successful_extractions"`
	FailedExtractions     int          `json:"failed_extractions"`
	ExtractedData         []FileResult `json:"extracted_data"`
}

type ParserOptions struct {
	MaxFileSize        int64
	MaxFilesPerRequest int
	AllowedTypes       []string
}

// Parser runs uploaded CVs through decoding, type checks, text extraction and the résumé prompt.
type Parser struct {
	extractor   ResumeExtractor
	store       *Store
	readText    TextExtractor
	maxFileSize int64
	maxFiles    int
	allowed     map[string]struct{}
	logger      *zap.Logger
	newID       func() string
}

func NewParser(extractor ResumeExtractor, store *Store, opts ParserOptions, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}

	allowed := make(map[string]struct{}, len(opts.AllowedTypes))
	for _, t := range opts.AllowedTypes {
		allowed[strings.TrimSpace(t)] = struct{}{}
	}

	return &Parser{
		extractor:   extractor,
		store:       store,
		readText:    ExtractText,
		maxFileSize: opts.MaxFileSize,
		maxFiles:    opts.MaxFilesPerRequest,
		allowed:     allowed,
		logger:      log,
		newID:       func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// Parse processes every file independently. Per-file failures are reported in the result;
// only an empty or oversized batch is an error.
func (p *Parser) Parse(ctx context.Context, files []File) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if p.maxFiles > 0 && len(files) > p.maxFiles {
		return nil, fmt.Errorf("%w: maximum %d files allowed per request", ErrTooManyFiles, p.maxFiles)
	}

	requestID := p.newID()
	log := logger.WithFields(p.logger, zap.String(logger.FieldRequestID, requestID))
	log.Info("parsing resumes", zap.Int("files", len(files)))

	result := &Result{
		Status:         StatusCompleted,
		ProcessedFiles: len(files),
		ExtractedData:  make([]FileResult, 0, len(files)),
	}

	for i, file := range files {
		name := SanitizeName(file.FileName)
		log.Info("processing file", zap.Int("index", i+1), zap.String("file", name))

		res := p.parseOne(ctx, log, requestID, name, file.FileData)
		if res.Status == StatusSuccess {
			result.SuccessfulExtractions++
		} else {
			result.FailedExtractions++
		}
		result.ExtractedData = append(result.ExtractedData, res)
	}

	log.Info("resume parsing completed",
		zap.Int("successful", result.SuccessfulExtractions),
		zap.Int("failed", result.FailedExtractions),
	)
	return result, nil
}

func (p *Parser) parseOne(ctx context.Context, log *zap.Logger, requestID, name, data string) FileResult {
	fail := func(msg string) FileResult {
		log.Warn("file rejected", zap.String("file", name), zap.String("reason", msg))
		return FileResult{FileName: name, Status: StatusError, Error: msg}
	}

	content, err := Decode(data, name, p.maxFileSize)
	if err != nil {
		return fail(err.Error())
	}

	detected := DetectMIME(content)
	effective := EnsureExtension(name, detected)
	mime := detected
	if mime == "" {
		mime = MIMEFromName(effective)
	}
	if _, ok := p.allowed[mime]; !ok || mime == "" {
		return fail(invalidTypeMessage)
	}

	path, cleanup, err := p.store.SaveTemp(requestID, effective, content)
	if err != nil {
		return fail(fmt.Sprintf("Failed to save file: %v", err))
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn("failed to clean up file", zap.String("file", name), zap.Error(err))
		}
	}()

	text, err := p.readText(path)
	if err != nil {
		return fail(fmt.Sprintf("Failed to extract resume data: %v", err))
	}

	extracted, err := p.extractor.ExtractResume(ctx, text)
	if err != nil {
		log.Error("resume extraction failed", zap.String("file", name), zap.Error(err))
		return FileResult{FileName: name, Status: StatusError, Error: fmt.Sprintf("Failed to extract resume data: %v", err)}
	}

	return FileResult{FileName: name, Status: StatusSuccess, ExtractedInfo: extracted}
}
