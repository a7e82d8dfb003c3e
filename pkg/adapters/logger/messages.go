package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Recorder lifecycle (info)
		"Recording %s with %s (segment %s)":            "%s を %s で録画中 (セグメント %s)",
		"Saved %s: %d frames (%d duplicated) in %d ms": "%s を保存しました: %d フレーム (複製 %d) %d ms",
		"Using fallback encoder %s for %s":             "フォールバックエンコーダー %s を %s に使用します",
		"Configured %dx%d at %.2f fps":                 "%dx%d, %.2f fps に設定しました",
		"Effect set to %s":                             "エフェクトを %s に設定しました",
		"Recorder closed":                              "レコーダーを終了しました",

		// Session / encoder selection
		"Opened encoder %s for %s":                 "エンコーダー %s で %s を開きました",
		"Skipping encoder %s: backend unavailable": "エンコーダー %s をスキップ: バックエンドが利用できません",
		"Closing failed encoder %s: %s":            "失敗したエンコーダー %s を閉じています: %s",

		// Pacing
		"Frame arrived late by %d ms":                "フレームが %d ms 遅れて到着しました",
		"Dropped %d frames inside the final slot":    "最終スロット内の %d フレームを破棄しました",
		"Request buffer full, rejecting frame":       "リクエストバッファが満杯のためフレームを拒否しました",
		"Frame %d: target %.1f fps, actual %.2f fps": "フレーム %d: 目標 %.1f fps, 実測 %.2f fps",

		// Browser source
		"Launching browser in headless mode":        "ヘッドレスモードでブラウザを起動中",
		"Launching browser in visible mode":         "表示モードでブラウザを起動中",
		"Navigating to %s":                          "%s へ移動中",
		"Starting screencast with JPEG quality %d":  "JPEG 品質 %d でスクリーンキャストを開始",
		"Captured %d frames":                        "%d フレームをキャプチャしました",
		"Browser closed":                            "ブラウザを閉じました",

		// CLI
		"Recording for %s from %s source":     "%s ソースから %s 録画します",
		"Output saved to %s":                  "出力を %s に保存しました",
		"Interrupted, shutting down...":       "中断されました。シャットダウン中...",
		"Loaded %d images from %s":            "%s から %d 枚の画像を読み込みました",
		"Skipping unreadable image %s: %s":    "読み込めない画像 %s をスキップ: %s",
		"Frame push failed: %s":               "フレームの送信に失敗しました: %s",

		// Warnings
		"Primary encoder unavailable, recording %s as %s":                   "プライマリエンコーダーが利用できないため %s を %s で録画します",
		"Over %d ms behind, skipping ahead and dropping %d queued frames":  "%d ms 以上遅延しているため、キュー内の %d フレームを破棄して追いつきます",
		"Dropped undecodable frame: %s":                                     "デコードできないフレームを破棄しました: %s",
		"Failed to write frame: %s":                                         "フレームの書き込みに失敗しました: %s",
		"Encoder %s failed to open %s: %s":                                  "エンコーダー %s で %s を開けませんでした: %s",
		"Failed to remove partial output %s: %s":                            "不完全な出力 %s の削除に失敗しました: %s",

		// Errors
		"Failed to start recording %s: %s": "%s の録画開始に失敗しました: %s",
		"Failed to finalize %s: %s":        "%s の書き出し完了に失敗しました: %s",
		"Failed to launch browser: %s":     "ブラウザの起動に失敗しました: %s",
	})
}
