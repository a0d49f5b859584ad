package util

import (
	"log"
	"time"
)

// Trace 计时：defer util.Trace("xxx")()
func Trace(name string) func() {
	start := time.Now()
	return func() {
		log.Printf("%s took %v", name, time.Since(start))
	}
}
