package storage

import (
	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/interfaces"
)

// FileManager implements interfaces.StorageManager on a local directory of JSON files.
type FileManager struct {
	fs         *FileStore
	portfolios *portfolioStorage
	nav        *navStorage
	logger     *common.Logger
}

// NewFileManager opens (creating if needed) a file-backed store under path.
func NewFileManager(logger *common.Logger, path string, versions int) (*FileManager, error) {
	fs, err := NewFileStore(logger, path, versions)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("File storage manager initialized")

	return &FileManager{
		fs:         fs,
		portfolios: newPortfolioStorage(fs, logger),
		nav:        newNAVStorage(fs, logger),
		logger:     logger,
	}, nil
}

func (m *FileManager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolios
}

func (m *FileManager) NAVStore() interfaces.NAVStore {
	return m.nav
}

// Close is a no-op; every write is already on disk.
func (m *FileManager) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*FileManager)(nil)
