package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wudi/ppmkit/parser"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ppminfo <input.ppm>")
		os.Exit(2)
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, err := parser.New(parser.Config{}).Parse(context.Background(), f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var min, max [3]int32
	for c := 0; c < 3; c++ {
		min[c] = img.MaxValue
	}
	for i, v := range img.Channels {
		c := i % 3
		if v < min[c] {
			min[c] = v
		}
		if v > max[c] {
			max[c] = v
		}
	}

	fmt.Printf("format: P3\n")
	fmt.Printf("size: %d x %d\n", img.Width, img.Height)
	fmt.Printf("max value: %d\n", img.MaxValue)
	fmt.Printf("values: %d\n", len(img.Channels))
	names := [3]string{"r", "g", "b"}
	for c := 0; c < 3; c++ {
		fmt.Printf("%s: min %d max %d\n", names[c], min[c], max[c])
	}
}
