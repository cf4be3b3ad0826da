package test

import (
	crypto_rand "crypto/rand"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/meow-io/go-bencode/config"
)

type ID [8]byte

func newID() ID {
	var id [8]byte
	_, err := io.ReadFull(crypto_rand.Reader, id[:])
	if err != nil {
		panic("short read from random source")
	}
	return id
}

func DeleteAll(glob string) {
	files, err := filepath.Glob(glob)
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		fileInfo, err := os.Stat(f)
		if err != nil {
			panic(err)
		}

		if fileInfo.IsDir() {
			DeleteAll(path.Join(f, "*"))
			if err := os.Remove(f); err != nil {
				panic(err)
			}
		} else {
			if err := os.Remove(f); err != nil {
				panic(err)
			}
		}
	}
}

// Cleanup runs the tests and then removes every scratch directory they created.
func Cleanup(run func() int) int {
	c := run()
	DeleteAll("test-*")
	return c
}

// NewScratchDir creates an empty test-<random> directory in the working directory.
func NewScratchDir() string {
	id := newID()
	dir := fmt.Sprintf("test-%x", id[:])
	if err := os.Mkdir(dir, 0o700); err != nil {
		panic(err)
	}
	return dir
}

// NewTestConfig returns a debug config rooted in a fresh scratch directory, logging to out.log there.
func NewTestConfig(opts ...config.Option) *config.Config {
	base := []config.Option{
		config.WithDebug(true),
		config.WithRootDir(NewScratchDir()),
		config.WithLogToFile(true),
		config.WithLoggingPrefix("test"),
	}
	return config.NewConfig(append(base, opts...)...)
}

// WriteFixture writes data to name inside dir and returns the file's path.
func WriteFixture(dir, name string, data []byte) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		panic(err)
	}
	return p
}
