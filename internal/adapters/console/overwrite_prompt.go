package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// OverwritePrompter спрашивает в терминале, перезаписать ли существующий файл
type OverwritePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewOverwritePrompter(in io.Reader, out io.Writer) *OverwritePrompter {
	return &OverwritePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm возвращает true только на ответ "y"/"yes". Пустой ввод и EOF означают "дописывать".
func (p *OverwritePrompter) Confirm(path string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "File %s already exists. Overwrite it? [y/N]: ", path); err != nil {
		return false, fmt.Errorf("console: failed to write prompt: %w", err)
	}

	answer, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("console: failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
