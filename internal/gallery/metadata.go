package gallery

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var pngSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

// sd stores its generation parameters under this tEXt keyword.
const parametersKey = "parameters"

// maxTextChunk bounds a single tEXt chunk; real parameter blocks are a few KiB.
const maxTextChunk = 16 << 20

// ReadMetadata returns the generation parameters of an image: the PNG
// "parameters" text chunk, any other text chunks, or a sidecar .txt file,
// in that order. Failures yield "".
func ReadMetadata(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		if chunks, err := readPNGText(path); err == nil && len(chunks) > 0 {
			if p, ok := chunks[parametersKey]; ok {
				return p
			}
			keys := make([]string, 0, len(chunks))
			for k := range chunks {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			var b strings.Builder
			for i, k := range keys {
				if i > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(k + ": " + chunks[k])
			}
			return b.String()
		}
	}
	sidecar := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	if b, err := os.ReadFile(sidecar); err == nil {
		return strings.TrimSpace(string(b))
	}
	return ""
}

func readPNGText(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pngText(bufio.NewReader(f))
}

// pngText collects the tEXt chunks of a PNG stream, stopping at IEND.
func pngText(r io.Reader) (map[string]string, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if !bytes.Equal(header, pngSignature) {
		return nil, errors.New("not a valid PNG file")
	}

	chunks := make(map[string]string)
	for {
		var length uint32
		err := binary.Read(r, binary.BigEndian, &length)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(r, chunkType); err != nil {
			return nil, err
		}

		switch string(chunkType) {
		case "tEXt":
			if length > maxTextChunk {
				return nil, fmt.Errorf("tEXt chunk of %d bytes exceeds %d", length, maxTextChunk)
			}
			data, err := io.ReadAll(io.LimitReader(r, int64(length)))
			if err != nil {
				return nil, err
			}
			if len(data) != int(length) {
				return nil, io.ErrUnexpectedEOF
			}
			end := bytes.IndexByte(data, 0)
			if end == -1 {
				return nil, errors.New("malformed tEXt chunk")
			}
			chunks[string(data[:end])] = string(data[end+1:])
		case "IEND":
			return chunks, nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
				return nil, err
			}
		}

		// CRC
		if _, err := io.CopyN(io.Discard, r, 4); err != nil {
			return nil, err
		}
	}
	return chunks, nil
}
