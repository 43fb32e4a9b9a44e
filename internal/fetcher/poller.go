package fetcher

import (
	"context"
	"time"

	"github.com/Nexo9/hermes-news-hub-sub001/internal/logger"
	"github.com/Nexo9/hermes-news-hub-sub001/internal/models"
)

// Runner запускает один прогон конвейера загрузки.
type Runner interface {
	Run(ctx context.Context) models.IngestResult
}

// StartPolling периодически запускает конвейер, пока контекст не отменён.
// Жизненный цикл привязан к контексту приложения, без глобального состояния таймера.
func StartPolling(ctx context.Context, runner Runner, interval time.Duration) {
	log := logger.Log.WithFields(map[string]interface{}{
		"service":  "poller",
		"interval": interval.String(),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Info("Starting scheduled ingestion run")
			res := runner.Run(ctx)
			if res.Success {
				log.Infof("Scheduled run finished: %d items", res.Count)
			} else {
				log.Warnf("Scheduled run failed: %s", res.Error)
			}

		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}
