package services

import (
	"context"
	"log"
	"time"
)

// ReaperService reclaims expired rows in the background. Correctness never
// depends on it: every read already checks expiry lazily, the sweep only
// keeps the tables from growing without bound.
type ReaperService struct {
	sessions SessionStoreDB
	ledger   LedgerStoreDB
	chat     ChatStoreDB
	interval time.Duration
}

func NewReaperService(sessions SessionStoreDB, ledger LedgerStoreDB, chat ChatStoreDB, interval time.Duration) *ReaperService {
	return &ReaperService{
		sessions: sessions,
		ledger:   ledger,
		chat:     chat,
		interval: interval,
	}
}

func (rs *ReaperService) Run(ctx context.Context) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rs.SweepExpired(time.Now())
		}
	}
}

// SweepExpired deletes everything past its expiry. Failures are logged and
// retried on the next tick.
func (rs *ReaperService) SweepExpired(now time.Time) {
	if n, err := rs.sessions.DeleteExpiredSessionsDB(now); err != nil {
		log.Printf("Failed to sweep expired sessions: %v", err)
	} else if n > 0 {
		log.Printf("Swept %d expired sessions", n)
	}

	if n, err := rs.ledger.DeleteExpiredCalculationsDB(now); err != nil {
		log.Printf("Failed to sweep expired calculations: %v", err)
	} else if n > 0 {
		log.Printf("Swept %d expired calculations", n)
	}

	if n, err := rs.chat.DeleteExpiredChatTurnsDB(now); err != nil {
		log.Printf("Failed to sweep expired chat turns: %v", err)
	} else if n > 0 {
		log.Printf("Swept %d expired chat turns", n)
	}
}
