package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rocjay1/finance-tracker/internal/handler"
	"github.com/rocjay1/finance-tracker/internal/importer"
	"github.com/rocjay1/finance-tracker/internal/ledger"
	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/services"
	"github.com/shopspring/decimal"
)

const defaultLedgerBlob = "ledger/transactions.json"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	// A missing .env is normal in Azure.
	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("handler host failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	store, err := newStore(ctx)
	if err != nil {
		return err
	}

	blobService, err := services.NewBlobService()
	if err != nil {
		return fmt.Errorf("init blob service: %w", err)
	}

	signer, err := newSigner(ctx, blobService)
	if err != nil {
		return err
	}

	queueService, err := services.NewQueueService(ctx)
	if err != nil {
		return fmt.Errorf("init queue service: %w", err)
	}

	ledgerBlob := os.Getenv("LEDGER_BLOB")
	if ledgerBlob == "" {
		ledgerBlob = defaultLedgerBlob
	}
	repo := ledger.NewRepository(ledger.NewBlobBackend(blobService, blobService.UploadContainer(), ledgerBlob))

	deps := &handler.Dependencies{
		Store:           store,
		Blob:            blobService,
		Signer:          signer,
		Queue:           queueService,
		Importer:        importer.NewCoordinator(store, repo),
		UploadContainer: blobService.UploadContainer(),
	}

	if emailService, err := services.NewEmailService(nil); err != nil {
		slog.Warn("email disabled", "error", err)
	} else if to := recipients(os.Getenv("USER_EMAIL")); len(to) > 0 {
		deps.Email = emailService
		deps.Recipients = to
	} else {
		slog.Warn("USER_EMAIL is not set; import notifications disabled")
	}

	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newStore picks the transaction store from STORE_BACKEND.
func newStore(ctx context.Context) (handler.TransactionStore, error) {
	switch backend := strings.ToLower(os.Getenv("STORE_BACKEND")); backend {
	case "", "tables":
		store, err := services.NewTableStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init table store: %w", err)
		}
		return store, nil
	case "postgres":
		store, err := services.NewPostgresStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

// newSigner picks the upload URL signer from SIGNED_URL_PROVIDER.
func newSigner(ctx context.Context, blob *services.BlobService) (handler.URLSigner, error) {
	switch provider := strings.ToLower(os.Getenv("SIGNED_URL_PROVIDER")); provider {
	case "", "azure":
		return blob, nil
	case "gcs":
		signer, err := services.NewGCSSigner(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs signer: %w", err)
		}
		return signer, nil
	default:
		return nil, fmt.Errorf("unknown SIGNED_URL_PROVIDER %q", provider)
	}
}

func recipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
