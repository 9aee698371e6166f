package services

import (
	"renovo/internal/logger"
)

func init() {
	logger.Init("test")
}
