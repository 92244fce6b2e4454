package gateway

import (
	"os"
	"testing"

	"go-workwise-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
