package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/rudihorn/prot2go"
)

const usage = `usage: prot2go [-dir=<path>] [-pkg=<path>] <command> [<args>]

Configuration flags:

   -dir        The output directory for generated files, defaults to out.
   -pkg        The package path of the generated files, defaults to mac.

Code generation commands
   mac         Generates the 802.15.4 MAC frame accessors, the frame control
               register into frame_control.go and the header structures into
               mac_frame.go.

Other commands
   help        Displays this help message.

`

var (
	dirFlag = flag.String("dir", "out", "output directory path")
	pkgFlag = flag.String("pkg", "mac", "generated package path")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	args := flag.Args()
	if len(args) == 0 {
		log.Printf("missing command\n\n")
		fmt.Print(usage)
		return
	}
	var err error
	switch cmd := flag.Arg(0); cmd {
	case "mac":
		err = prot2go.Generate(*dirFlag, *pkgFlag)
	case "help":
		fmt.Print(usage)
	default:
		log.Printf("unknown command: %s\n\n", cmd)
		fmt.Print(usage)
	}
	if err != nil {
		log.Fatalf("%s error: %+v\n", flag.Arg(0), err)
	}
}
