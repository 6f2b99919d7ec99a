// verify_scenery 检查导游和背景定义目录，并打印统计报告
//
// 用法：
//
//	go run ./cmd/verify_scenery                          # 检查内置资源 assets/
//	go run ./cmd/verify_scenery -dir ~/my-scenery        # 检查自定义目录（companions/ 和 scenery/ 子目录）
//	go run ./cmd/verify_scenery -config data/presentation.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/decker502/scenery/pkg/config"
	"github.com/decker502/scenery/pkg/game"
)

func main() {
	dir := flag.String("dir", "assets", "包含 companions/ 和 scenery/ 子目录的资源目录")
	configPath := flag.String("config", "", "同时校验的展示配置文件")
	flag.Parse()

	ok := true
	rm := game.NewResourceManager(os.DirFS(*dir))
	ctx := context.Background()

	fmt.Printf("=== 导游 (%s/companions) ===\n", *dir)
	companions, err := game.LoadCompanionDir(ctx, rm, "companions")
	if err != nil {
		fmt.Printf("❌ 读取导游目录失败: %v\n", err)
		ok = false
	}
	totalMessages := 0
	for _, c := range companions {
		fmt.Printf("✅ %-16s language=%s images=%d triggers=%d messages=%d idle=%d\n",
			c.Name(), c.Language(), len(c.Images()), c.TriggerCount(), c.TotalResponseCount(), len(c.IdleChatter()))
		if c.Description() != "" {
			fmt.Printf("   %s\n", c.Description())
		}
		totalMessages += c.TotalResponseCount()
	}
	fmt.Printf("导游数量: %d，台词总数: %d\n\n", len(companions), totalMessages)
	if len(companions) == 0 {
		ok = false
	}

	fmt.Printf("=== 背景 (%s/scenery) ===\n", *dir)
	loader, err := game.NewSceneryLoader(ctx, rm, "scenery", nil, "")
	if err != nil {
		fmt.Printf("❌ 读取背景目录失败: %v\n", err)
		ok = false
	} else {
		tagCount := map[string]int{}
		for _, s := range loader.BuiltIns() {
			fmt.Printf("✅ %-16s variants=%d tags=[%s]\n", s.Name(), len(s.Variants()), strings.Join(s.Tags(), ", "))
			for _, tag := range s.Tags() {
				tagCount[tag]++
			}
		}
		fmt.Printf("背景数量: %d，标签种类: %d\n", len(loader.BuiltIns()), len(tagCount))
	}

	if *configPath != "" {
		fmt.Printf("\n=== 配置 (%s) ===\n", *configPath)
		cfg, err := config.LoadPresentationConfig(*configPath)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			ok = false
		} else {
			fmt.Printf("✅ companion=%q commentary=%v scenery=%s chattiness=%d%%\n",
				cfg.Companion, cfg.CommentaryEvery(), cfg.SceneryInterval, cfg.ChattinessPercent())
		}
	}

	if !ok {
		os.Exit(1)
	}
}
