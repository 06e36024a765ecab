package conf

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Comment prefixes of configuration lines. '%' comments head rule files.
const (
	COMMENT         = '#'
	PERCENT_COMMENT = '%'
)

type Conf struct {
	Values []string
	// Lines holds the 1-based source line of each value
	Lines []int
}

func Read(reader io.Reader) (*Conf, error) {
	scanner := bufio.NewScanner(reader)
	retval := &Conf{make([]string, 0, 64), make([]int, 0, 64)}
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 || trimmed[0] == COMMENT || trimmed[0] == PERCENT_COMMENT {
			continue
		}
		retval.Values = append(retval.Values, trimmed)
		retval.Lines = append(retval.Lines, lineNum)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return retval, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}
