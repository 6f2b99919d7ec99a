package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/scenery/pkg/app"
	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "展示配置文件（YAML），按 R 重新加载")
	companionsDir := flag.String("companions", "", "自定义导游目录")
	sceneryDir := flag.String("scenery", "", "自定义背景目录")
	playlistPath := flag.String("playlist", "", "演示播放列表（YAML）")
	flag.Parse()

	// 初始化嵌入资源（assetsFS 和 dataFS 在 embed.go 中声明）
	embedded.Init(assetsFS, dataFS)

	sceneryApp, err := app.NewApp(app.Config{
		Verbose:       *verbose,
		ConfigPath:    *configPath,
		CompanionsDir: *companionsDir,
		SceneryDir:    *sceneryDir,
		PlaylistPath:  *playlistPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer sceneryApp.Shutdown()

	ebiten.SetWindowSize(config.DefaultWindowWidth, config.DefaultWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(sceneryApp); err != nil {
		log.Fatal(err)
	}
}
