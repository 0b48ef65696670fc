// adsctl is a small admin CLI over the ads API, driving the same
// draft store the panel uses.
//
//	adsctl -cmd list [-position top]    (all sections when -position is empty)
//	adsctl -cmd append -position top -content '<p>hello</p>'
//	adsctl -cmd delete -id 42
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"adsmanager/internal/client/api"
	"adsmanager/internal/client/drafts"
	"adsmanager/internal/store"

	"go.uber.org/zap"
)

func main() {
	var (
		addr     = flag.String("addr", "http://localhost:8080/v1", "API base URL")
		site     = flag.String("site", "", "site tag sent with every request")
		cmd      = flag.String("cmd", "list", "command: list | append | delete")
		position = flag.String("position", "", "placement: top | middle | bottom (list shows all when empty)")
		content  = flag.String("content", "", "ad content for append")
		id       = flag.Int64("id", 0, "ad id for delete")
	)
	flag.Parse()

	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st := drafts.NewStore(api.NewClient(*addr), logger)
	st.Load(ctx, *site)

	switch *cmd {
	case "list":
		for _, p := range drafts.Positions {
			if *position != "" && p != store.Position(*position) {
				continue
			}
			fmt.Printf("%s:\n", p)
			for i, d := range st.Section(p) {
				fmt.Printf("  %d. [id=%s] %q\n", i, d.Key(), d.Content)
			}
		}
	case "append":
		pos := store.Position(*position)
		if !pos.Valid() {
			logger.Fatalw("invalid position", "position", *position)
		}
		d := st.Add(pos)
		d.Content = *content
		if err := st.SaveSection(ctx, *site, pos); err != nil {
			logger.Fatalw("save failed", "position", pos, "error", err)
		}
		fmt.Printf("saved %d ads in %s\n", len(st.Section(pos)), pos)
	case "delete":
		if *id == 0 {
			logger.Fatal("delete requires -id")
		}
		if err := st.Delete(ctx, *site, *id); err != nil {
			logger.Fatalw("delete failed", "id", *id, "error", err)
		}
		fmt.Printf("deleted ad %d\n", *id)
	default:
		logger.Fatalw("unknown command", "cmd", *cmd)
	}
}
