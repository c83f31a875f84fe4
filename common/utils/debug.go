package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type Context map[string]interface{}

type Message struct {
	Time    string  `json:"time"`
	Service string  `json:"service"`
	Message string  `json:"message"`
	Context Context `json:"context"`
}

var (
	quiet   bool
	quietmu sync.RWMutex
)

// SetQuiet silences Debug output; tests and benchmarks use it to keep the
// output readable.
func SetQuiet(q bool) {
	quietmu.Lock()
	quiet = q
	quietmu.Unlock()
}

func isQuiet() bool {
	quietmu.RLock()
	defer quietmu.RUnlock()
	return quiet
}

func Debug(service string, message string) {
	DebugWith(service, message, nil)
}

func DebugWith(service string, message string, context Context) {
	if isQuiet() {
		return
	}

	if context == nil {
		context = make(Context)
	}

	if hostname, err := os.Hostname(); err == nil {
		context["hostname"] = hostname
	}

	messageStruct := Message{
		Time:    time.Now().Format(time.RFC3339),
		Service: service,
		Message: message,
		Context: context,
	}

	data, _ := json.Marshal(messageStruct)

	fmt.Println(string(data))
}
