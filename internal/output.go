package internal

import (
	"fmt"

	"zillow-parser-service/internal/configs"
	"zillow-parser-service/internal/core/port"
)

// outputFile - то, что нужно от CSV хранилища для решения о перезаписи
type outputFile interface {
	Path() string
	Exists() (bool, error)
	Reset() error
}

type overwriteConfirmer interface {
	Confirm(path string) (bool, error)
}

// prepareOutput применяет OUTPUT_OVERWRITE к уже существующему файлу.
// Возвращает true, если файл был удален.
func prepareOutput(mode string, file outputFile, confirmer overwriteConfirmer, logger port.LoggerPort) (bool, error) {
	exists, err := file.Exists()
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	overwrite := false
	switch mode {
	case configs.OverwriteAlways:
		overwrite = true
	case configs.OverwriteNever:
	case configs.OverwritePrompt:
		overwrite, err = confirmer.Confirm(file.Path())
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown overwrite mode %q", mode)
	}

	if !overwrite {
		logger.Info("Appending to existing output file", port.Fields{"path": file.Path()})
		return false, nil
	}
	if err := file.Reset(); err != nil {
		return false, err
	}
	logger.Info("Existing output file removed", port.Fields{"path": file.Path()})
	return true, nil
}
