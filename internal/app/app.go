package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/mchales/huistack-backend/internal/adapter/blob"
	"github.com/mchales/huistack-backend/internal/adapter/postgres"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/lemma"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/lesson"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/sentence"
	"github.com/mchales/huistack-backend/internal/adapter/postgres/token"
	videojobrepo "github.com/mchales/huistack-backend/internal/adapter/postgres/videojob"
	"github.com/mchales/huistack-backend/internal/adapter/translate"
	"github.com/mchales/huistack-backend/internal/config"
	"github.com/mchales/huistack-backend/internal/media"
	"github.com/mchales/huistack-backend/internal/service/ingest"
	"github.com/mchales/huistack-backend/internal/service/videojob"
	"github.com/mchales/huistack-backend/internal/textseg"
	"github.com/mchales/huistack-backend/internal/transport/middleware"
	"github.com/mchales/huistack-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects
// to the database, wires every adapter and service together, and serves
// HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	lessonRepo := lesson.New(pool)
	sentenceRepo := sentence.New(pool)
	tokenRepo := token.New(pool)
	lemmaRepo := lemma.New(pool)
	jobRepo := videojobrepo.New(pool)

	store, err := blob.NewFSStore(cfg.Storage.MediaDir)
	if err != nil {
		return fmt.Errorf("init media storage: %w", err)
	}

	tokenizer := textseg.NewTokenizer(newSegmenter(cfg.Ingest, logger))

	var translator ingestTranslator
	if cfg.Ingest.TranslateBaseURL != "" {
		translator = translate.NewLibreProvider(cfg.Ingest.TranslateBaseURL, logger)
	} else {
		translator = translate.NewStub()
	}

	ingestSvc := ingest.NewService(
		logger, lessonRepo, sentenceRepo, tokenRepo, lemmaRepo,
		tokenizer, translator, txm, cfg.Ingest,
	)

	extractor := media.NewExtractor(cfg.Video.FFmpegPath, cfg.Video.FFprobePath)
	if !extractor.Available() {
		logger.Warn("ffmpeg/ffprobe not found on PATH; video jobs will fail",
			slog.String("ffmpeg", cfg.Video.FFmpegPath),
			slog.String("ffprobe", cfg.Video.FFprobePath),
		)
	}

	jobSvc := videojob.NewService(logger, jobRepo, sentenceRepo, lessonRepo, store, videoOpener{extractor})

	var background *videojob.Background
	switch cfg.Video.Executor {
	case "inline":
		jobSvc.SetDispatcher(videojob.NewInline(jobSvc.Run, logger))
	default:
		background = videojob.NewBackground(jobSvc.Run, cfg.Video.Workers, logger)
		jobSvc.SetDispatcher(background)
	}

	router := rest.NewRouter(rest.RouterDeps{
		Lessons:   rest.NewLessonHandler(ingestSvc, lessonRepo, sentenceRepo, tokenRepo, jobSvc, cfg.Server.MaxUploadBytes, logger),
		VideoJobs: rest.NewVideoJobHandler(jobSvc, logger),
		Lemmas:    rest.NewLemmaHandler(lemmaRepo, logger),
		Media:     rest.NewMediaHandler(store, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Chain: middleware.Chain(
			middleware.RequestID,
			middleware.Recovery(logger),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
		),
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.String("error", err.Error()))
	}

	if background != nil {
		background.Wait()
	}

	return nil
}

// ingestTranslator mirrors the translate collaborator the ingestion
// service expects, so either provider wires in without a type switch.
type ingestTranslator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// videoOpener adapts the concrete ffmpeg extractor to the decoder
// interface the video job service consumes.
type videoOpener struct {
	ex *media.Extractor
}

func (o videoOpener) Open(ctx context.Context, path string) (videojob.Decoder, error) {
	d, err := o.ex.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// newSegmenter builds the dictionary word segmenter, falling back to
// character-run scanning when disabled or when the dictionary fails to
// load.
func newSegmenter(cfg config.IngestConfig, logger *slog.Logger) textseg.Segmenter {
	if !cfg.SegmenterEnabled {
		logger.Info("word segmenter disabled; using fallback scanner")
		return nil
	}

	seg, err := textseg.NewGseSegmenter()
	if err != nil {
		logger.Warn("word segmenter init failed; using fallback scanner",
			slog.String("error", err.Error()))
		return nil
	}
	return seg
}
