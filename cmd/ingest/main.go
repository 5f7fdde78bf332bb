// Command ingest loads a plain-text or .srt file into the database as a
// lesson, without going through the HTTP API. Useful for seeding local
// content and for checking dictionary coverage of a text.
//
// Flags:
//
//	--file    path to the text or subtitle file (required)
//	--title   lesson title (default: file name without extension)
//	--srt     treat the file as SubRip subtitles regardless of extension
//
// Machine translation follows the INGEST_TRANSLATE and
// INGEST_TRANSLATE_BASE_URL configuration.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/lemma"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/lesson"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/sentence"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/token"
	"github.com/mchales/huistack-backend/internal/adapter/translate"
	"github.com/mchales/huistack-backend/internal/app"
	"github.com/mchales/huistack-backend/internal/config"
	"github.com/mchales/huistack-backend/internal/service/ingest"
	"github.com/mchales/huistack-backend/internal/textseg"
)

func main() {
	fileFlag := flag.String("file", "", "path to the text or subtitle file")
	titleFlag := flag.String("title", "", "lesson title (default: file name)")
	srtFlag := flag.Bool("srt", false, "treat the file as SubRip subtitles")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("--file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	data, err := os.ReadFile(*fileFlag)
	if err != nil {
		logger.Error("read input file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	title := *titleFlag
	base := filepath.Base(*fileFlag)
	if title == "" {
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	var segmenter textseg.Segmenter
	if cfg.Ingest.SegmenterEnabled {
		if seg, err := textseg.NewGseSegmenter(); err == nil {
			segmenter = seg
		} else {
			logger.Warn("word segmenter init failed; using fallback scanner",
				slog.String("error", err.Error()))
		}
	}

	var translator sentenceTranslator = translate.NewStub()
	if cfg.Ingest.TranslateBaseURL != "" {
		translator = translate.NewLibreProvider(cfg.Ingest.TranslateBaseURL, logger)
	}

	svc := ingest.NewService(
		logger,
		lesson.New(pool),
		sentence.New(pool),
		token.New(pool),
		lemma.New(pool),
		textseg.NewTokenizer(segmenter),
		translator,
		postgres.NewTxManager(pool),
		cfg.Ingest,
	)

	var result *ingest.Result
	if *srtFlag || strings.EqualFold(filepath.Ext(base), ".srt") {
		result, err = svc.IngestSRT(ctx, ingest.SRTInput{Title: title, Name: base, Data: data})
	} else {
		result, err = svc.IngestText(ctx, ingest.TextInput{Title: title, Name: base, Text: string(data)})
	}
	if err != nil {
		logger.Error("ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("lesson %s created: %d sentences\n", result.Lesson.ID, result.SentenceCount)
	if len(result.MissingCharacters) > 0 {
		fmt.Printf("characters missing from dictionary: %s\n", strings.Join(result.MissingCharacters, " "))
	}
}

// sentenceTranslator lets either translate provider wire into the
// ingestion service without a type switch.
type sentenceTranslator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
