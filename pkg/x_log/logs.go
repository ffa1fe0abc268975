package x_log

import (
	"bufio"
	"os"
)

// Tail returns the last n lines of a log file.
func Tail(filename string, n int) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if n > 0 && len(lines) == n {
			lines = append(lines[1:], sc.Text())
			continue
		}
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
