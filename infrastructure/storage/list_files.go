package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"
)

type listFiles struct {
	namesPath   string
	proxiesPath string
}

// NewListFiles - creates a list source backed by plain-text files holding
// one value per line. An empty path yields an empty list.
func NewListFiles(namesPath, proxiesPath string) interfaces.ListSource {
	return &listFiles{
		namesPath:   namesPath,
		proxiesPath: proxiesPath,
	}
}

// LoadNames - loads names, one per line
func (l *listFiles) LoadNames() ([]string, error) {
	if l.namesPath == "" {
		return nil, nil
	}
	names, err := readLines(l.namesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load names: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("failed to load names: %s contains no names", l.namesPath)
	}
	return names, nil
}

// LoadProxies - loads and parses proxies, one per line
func (l *listFiles) LoadProxies() ([]entities.Proxy, error) {
	if l.proxiesPath == "" {
		return nil, nil
	}
	lines, err := readLines(l.proxiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load proxies: %w", err)
	}

	proxies := make([]entities.Proxy, 0, len(lines))
	for _, line := range lines {
		p, err := entities.ParseProxy(line)
		if err != nil {
			return nil, fmt.Errorf("failed to load proxies from %s: %w", l.proxiesPath, err)
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

// readLines - returns trimmed non-empty lines, skipping # comments
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
