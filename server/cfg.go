package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/snake/model"
)

// LoadConfig reads game settings from path. An empty path yields the defaults.
func LoadConfig(path string) (model.Config, error) {
	if path == "" {
		return model.DefaultConfig(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("open settings: %w", err)
	}
	defer file.Close()
	cfg, err := read(file)
	if err != nil {
		return model.Config{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	log.Printf("settings loaded from %s: %+v", path, cfg)
	return cfg, nil
}

// read parses "key value" lines on top of the defaults. # starts a comment.
func read(reader io.Reader) (model.Config, error) {
	cfg := model.DefaultConfig()
	fields := map[string]*int{
		"board":    &cfg.BoardSize,
		"interval": &cfg.BaseInterval,
		"step":     &cfg.IntervalStep,
		"min":      &cfg.MinInterval,
		"ramp":     &cfg.RampEvery,
	}

	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	line := 0
	for scanner.Scan() {
		line++
		s := scanner.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		parts := strings.Fields(s)
		if len(parts) == 0 {
			continue
		}
		if len(parts) != 2 {
			return cfg, fmt.Errorf("line %d: want \"key value\", got %q", line, scanner.Text())
		}
		field, found := fields[parts[0]]
		if !found {
			return cfg, fmt.Errorf("line %d: unknown key %q", line, parts[0])
		}
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			return cfg, fmt.Errorf("line %d: %w", line, err)
		}
		*field = v
	}
	if err := scanner.Err(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
