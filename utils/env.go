package utils

import (
	"os"
)

func Env() string {
	return os.Getenv("COLLATZ_CERT_ENV")
}

func IsTest() bool {
	return Env() == "test"
}
