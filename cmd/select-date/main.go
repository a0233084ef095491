// select-date prints the resolved pipeline date for shell scripts that chain
// the stage binaries, so every stage in a cron run agrees on the date even
// across a midnight boundary.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kmuriithi/betpipe/internal/pkg/runutil"
)

func main() {
	var date, def string
	flag.StringVar(&date, "date", "", "Date to resolve: YYYY-MM-DD, today, tomorrow or yesterday")
	flag.StringVar(&def, "default", "tomorrow", "Default when no date is given")
	flag.Parse()

	resolved, err := runutil.ResolveDate(date, def)
	if err != nil {
		log.Fatalf("select-date: %v", err)
	}
	fmt.Println(resolved)
}
