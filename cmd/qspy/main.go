// Command qspy is a minimal host-side decoder for the QS trace protocol
// (spec.md §4.J): it reads a raw HDLC byte stream from a file, a TCP
// connection, or stdin, and prints one human-readable line per decoded
// record. Grounded on original_source's tools/qspy (per _INDEX.md); this is
// a thin wiring layer over qs/host's Deframer and Interpreter.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/nexusqp/qpkernel/qs/host"
)

func main() {
	tcpAddr := flag.String("tcp", "", "connect to a TCP trace source at host:port instead of reading a file/stdin")
	file := flag.String("file", "", "read a captured trace stream from this file instead of stdin")
	flag.Parse()

	r, closer, err := openSource(*tcpAddr, *file)
	if err != nil {
		log.Fatalf("qspy: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := run(r, os.Stdout); err != nil && err != io.EOF {
		log.Fatalf("qspy: %v", err)
	}
}

func openSource(tcpAddr, file string) (io.Reader, io.Closer, error) {
	switch {
	case tcpAddr != "":
		conn, err := net.Dial("tcp", tcpAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", tcpAddr, err)
		}
		return conn, conn, nil
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", file, err)
		}
		return f, f, nil
	default:
		return os.Stdin, nil, nil
	}
}

// run drains r through a Deframer and Interpreter, writing one rendered
// line per decoded record (or a diagnostic line for a dropped frame) to w.
func run(r io.Reader, w io.Writer) error {
	deframer := host.NewDeframer()
	interp := host.NewInterpreter()
	out := bufio.NewWriter(w)
	defer out.Flush()

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		for _, result := range deframer.Write(buf[:n]) {
			if result.Err != nil {
				fmt.Fprintf(out, "!! dropped frame: %v\n", result.Err)
				continue
			}
			fmt.Fprintln(out, interp.Decode(result.Record).String())
		}
		if err != nil {
			return err
		}
	}
}
