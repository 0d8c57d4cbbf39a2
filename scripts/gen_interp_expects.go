// gen_interp_expects generates wrapper functions for the builder methods of
// a test case type, so that common expectations may be passed around as
// values and combined through the case's apply method.
//
// Usage: go run scripts/gen_interp_expects.go -- SOURCE_test.go OUTPUT_test.go
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

var (
	caseType = flag.String("type", "interpTestCase", "test case type whose methods are wrapped")
	recv     = flag.String("recv", "it", "receiver name used by the test case methods")
	infix    = flag.String("infix", "Interp", "inserted between expect/with and the rest of each wrapped name")
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

func main() {
	flag.Parse()

	var (
		in  namedReader    = os.Stdin
		out io.WriteCloser = os.Stdout
	)
	if args := flag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatalf("failed to open %v: %v", args[0], err)
		}
		in = f
		if len(args) > 1 {
			if out, err = os.Create(args[1]); err != nil {
				log.Fatalf("failed to create %v: %v", args[1], err)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	// generated code is piped through goimports, which also adds any imports
	// that wrapped argument types need
	pr, pw := io.Pipe()
	eg.Go(func() error {
		defer out.Close()
		goimports := exec.CommandContext(ctx, "goimports")
		goimports.Stdin = pr
		goimports.Stdout = out
		goimports.Stderr = os.Stderr
		if err := goimports.Run(); err != nil {
			return fmt.Errorf("goimports failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		defer in.Close()
		defer func() { pw.CloseWithError(rerr) }()
		return generate(ctx, in, pw)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func generate(ctx context.Context, in namedReader, out io.Writer) error {
	method := regexp.MustCompile(fmt.Sprintf(
		`^func \(%s %s\) (expect|with)(.+?)\((.+?)\) %s \{`,
		regexp.QuoteMeta(*recv), regexp.QuoteMeta(*caseType), regexp.QuoteMeta(*caseType)))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package main\n\n// @generated from %v\n\n", in.Name())
	if args := flag.Args(); len(args) >= 2 {
		buf.WriteString("//go:generate go run scripts/gen_interp_expects.go --")
		for _, arg := range args {
			buf.WriteByte(' ')
			buf.WriteString(arg)
		}
		buf.WriteString("\n\n")
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		match := method.FindSubmatch(sc.Bytes())
		if match == nil {
			continue
		}
		base, what, params := match[1], match[2], match[3]

		var args bytes.Buffer
		for i, param := range bytes.Split(params, []byte(",")) {
			fields := bytes.Fields(param)
			if len(fields) != 2 {
				return fmt.Errorf("%v: every parameter of %s%s must be named and typed", in.Name(), base, what)
			}
			if i > 0 {
				args.WriteString(", ")
			}
			args.Write(fields[0])
			if bytes.HasPrefix(fields[1], []byte("...")) {
				args.WriteString("...")
			}
		}

		fmt.Fprintf(&buf, "func %s%s%s(%s) func(%s) %s {\n", base, *infix, what, params, *caseType, *caseType)
		fmt.Fprintf(&buf, "\treturn func(%s %s) %s {\n", *recv, *caseType, *caseType)
		fmt.Fprintf(&buf, "\t\treturn %s.%s%s(%s)\n", *recv, base, what, args.Bytes())
		buf.WriteString("\t}\n}\n\n")

		if _, err := buf.WriteTo(out); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	_, err := buf.WriteTo(out)
	return err
}
