package engine

import (
	"os"

	"chronorise/internal/engine/interfaces"
	"chronorise/internal/models"
	"chronorise/internal/providers"
	"chronorise/internal/services"
	"chronorise/internal/structures"

	json "github.com/goccy/go-json"
)

// FileManager persists the alarm collection as a compressed JSON blob under
// the configured path. Writes go through a temp file and rename so a crash
// mid-save never corrupts the previous snapshot.
type FileManager struct {
	conf       *structures.Config
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		conf:       conf,
		compressor: compressor,
		logger:     logger,
	}
}

// NewPersister exposes the file manager under the alarm service's persistence
// contract.
func NewPersister(fm *FileManager) services.PersisterInterface {
	return fm
}

func (f *FileManager) Save(storage *models.Storage) error {
	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	fileName := f.conf.Persistence.FilePath
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Load reads the persisted collection. A missing file yields an empty
// collection. Uncompressed files are accepted as plain JSON, and a pre-v1
// bare alarm array is migrated into the current envelope.
func (f *FileManager) Load() (*models.Storage, error) {
	data, err := os.ReadFile(f.conf.Persistence.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewStorage(nil), nil
		}
		return nil, err
	}

	jsonData, err := f.compressor.Decompress(data)
	if err != nil {
		// Not a zstd frame; fall through to plain JSON.
		jsonData = data
	}

	var storage models.Storage
	if err := json.Unmarshal(jsonData, &storage); err == nil && storage.Alarms != nil {
		return &storage, nil
	}

	f.logger.Warnf(providers.TypeApp, "Inconsistent alarm DB found, try to migrate from old data format")
	var alarms []*models.Alarm
	if err := json.Unmarshal(jsonData, &alarms); err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return nil, err
	}
	f.logger.Warnf(providers.TypeApp, "Migration from bare-array format successful")
	return models.NewStorage(alarms), nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
