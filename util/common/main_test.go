package common

import (
	"os"
	"testing"

	"bookshelf/logger"

	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger(logging.DEBUG)
	os.Exit(m.Run())
}
