package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shouni/go-manga-page-kit/pkg/director"
	"github.com/shouni/go-manga-page-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// layoutCmd は、レイアウト名からパネル矩形を計算して JSON で表示するのだ。
var layoutCmd = &cobra.Command{
	Use:   "layout <splash|grid|cinematic>",
	Short: "レイアウトのパネル座標を JSON で表示するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE:  layoutCommand,
}

func layoutCommand(cmd *cobra.Command, args []string) error {
	if _, ok := domain.ParseLayout(args[0]); !ok {
		return fmt.Errorf("未知のレイアウトなのだ: %q（splash, grid, cinematic のいずれか）", args[0])
	}

	rects := director.CalculateLayout(args[0])
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rects); err != nil {
		return fmt.Errorf("レイアウトの出力に失敗したのだ: %w", err)
	}
	return nil
}
