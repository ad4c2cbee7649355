package handle_test

import (
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

func ExampleWith() {
	fsys := memfs.New()

	err := handle.With("greeting.txt", handle.Write, func(h *handle.FileHandle) error {
		h.WriteBytes([]byte("hello world"))
		return nil
	}, handle.WithFilesystem(fsys))
	if err != nil {
		fmt.Println("write:", err)
		return
	}

	err = handle.With("greeting.txt", handle.Read, func(h *handle.FileHandle) error {
		if _, err := h.Seek(6, io.SeekStart); err != nil {
			return err
		}
		word, err := h.ReadString(5)
		if err != nil {
			return err
		}
		fmt.Println(word)
		return nil
	}, handle.WithFilesystem(fsys))
	if err != nil {
		fmt.Println("read:", err)
	}

	// Output: world
}

func ExampleFileHandle_Print() {
	fsys := memfs.New()

	h, err := handle.Open("report.txt", handle.ReadWrite, handle.WithFilesystem(fsys))
	if err != nil {
		fmt.Println("open:", err)
		return
	}
	defer h.Close()

	_ = h.Printf("records=%d\n", 42)
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		fmt.Println("seek:", err)
		return
	}
	line, _ := h.ReadString(handle.ReadToEnd)
	fmt.Print(line)

	// Output: records=42
}
