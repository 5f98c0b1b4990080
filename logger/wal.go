package logger

import (
	"time"

	wal "github.com/aarthikrao/wal"
	"go.uber.org/zap"
)

// InitWAL opens (or creates) a write-ahead log under dir. Mutations are
// appended here before they touch the memtable.
func InitWAL(dir string, log *zap.Logger) (*wal.WriteAheadLog, error) {
	return wal.NewWriteAheadLog(&wal.WALOptions{
		LogDir:            dir,
		MaxLogSize:        40 * 1024 * 1024, // 40 MB (log rotation size)
		MaxSegments:       2,
		Log:               log,
		MaxWaitBeforeSync: 1 * time.Second,
		SyncMaxBytes:      1000,
	})
}
