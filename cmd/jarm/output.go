package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/sagernet/sing-jarm"
	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"
	"github.com/sagernet/sing/common/json"
)

type resultWriter interface {
	Write(result *jarm.Result) error
	Flush() error
}

func newResultWriter(format string, writer io.Writer, printRaw bool) (resultWriter, error) {
	switch format {
	case "", "text":
		return &textWriter{writer: bufio.NewWriter(writer), printRaw: printRaw}, nil
	case "json":
		return &jsonWriter{writer: bufio.NewWriter(writer)}, nil
	case "csv":
		return newCSVWriter(writer, printRaw), nil
	default:
		return nil, E.New("unknown output format: ", format)
	}
}

type textWriter struct {
	writer   *bufio.Writer
	printRaw bool
}

func (w *textWriter) Write(result *jarm.Result) error {
	line := F.ToString(result.Target(), " ", result.Fingerprint)
	if result.Match != nil {
		if result.Match.Similar {
			line += " (similar to " + result.Match.Label + ")"
		} else {
			line += " (" + result.Match.Label + ")"
		}
	}
	if result.Country != "" {
		line += " [" + result.Country + "]"
	}
	_, err := w.writer.WriteString(line + "\n")
	if err != nil {
		return err
	}
	if w.printRaw {
		for index, raw := range result.Raw {
			_, err = w.writer.WriteString(F.ToString("  ", index, " ", raw.String(), "\n"))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *textWriter) Flush() error {
	return w.writer.Flush()
}

// jsonWriter emits one object per line.
type jsonWriter struct {
	writer *bufio.Writer
}

func (w *jsonWriter) Write(result *jarm.Result) error {
	content, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.writer.Write(append(content, '\n'))
	return err
}

func (w *jsonWriter) Flush() error {
	return w.writer.Flush()
}

type csvWriter struct {
	writer       *csv.Writer
	printRaw     bool
	headerWritten bool
}

func newCSVWriter(writer io.Writer, printRaw bool) *csvWriter {
	return &csvWriter{writer: csv.NewWriter(writer), printRaw: printRaw}
}

func (w *csvWriter) Write(result *jarm.Result) error {
	if !w.headerWritten {
		header := []string{"host", "port", "address", "fingerprint", "match", "similar", "country"}
		if w.printRaw {
			header = append(header, "raw")
		}
		err := w.writer.Write(header)
		if err != nil {
			return err
		}
		w.headerWritten = true
	}
	var label, similar string
	if result.Match != nil {
		label = result.Match.Label
		similar = strconv.FormatBool(result.Match.Similar)
	}
	record := []string{result.Host, result.Port, result.Address, result.Fingerprint, label, similar, result.Country}
	if w.printRaw {
		raw := make([]string, 0, len(result.Raw))
		for _, probeResult := range result.Raw {
			raw = append(raw, probeResult.String())
		}
		record = append(record, strings.Join(raw, ","))
	}
	return w.writer.Write(record)
}

func (w *csvWriter) Flush() error {
	w.writer.Flush()
	return w.writer.Error()
}
