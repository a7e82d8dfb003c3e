package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":            "出力先",
		"Source":            "フレームソース",
		"Video and Quality": "動画と品質",
		"Browser":           "ブラウザ設定",
		"Logging":           "ログ",

		// Root command
		"Record paced video from live frame sources": "ライブフレームソースから一定レートの動画を録画",
		"YAML configuration file":                    "YAML設定ファイル",

		// Record command
		"Record frames from a source into a video file":              "ソースのフレームを動画ファイルに録画",
		"Output file path (default: <output_dir>/<unix ms>.mp4)":     "出力ファイルパス（デフォルト: <output_dir>/<unixミリ秒>.mp4）",
		"Recording length":                                           "録画時間",
		"Frame source (pattern, dir, url)":                           "フレームソース（pattern, dir, url）",
		"Directory of images for the dir source":                     "dir ソースで使う画像ディレクトリ",
		"Page to screencast for the url source":                      "url ソースでスクリーンキャストするページ",
		"Rate at which the pattern and dir sources push frames":      "pattern / dir ソースがフレームを送るレート",
		"Random spread of the pattern source interval (0-1)":         "pattern ソースの送信間隔のランダム幅（0-1）",
		"Push pattern frames as JPEG of this quality instead of raw RGBA": "pattern のフレームを生RGBAではなく指定品質のJPEGで送信",
		"Switch to the next effect at this interval while recording": "録画中にこの間隔で次のエフェクトへ切り替え",

		// Video flags
		"Output video width":                          "出力動画の幅",
		"Output video height":                         "出力動画の高さ",
		"Output frame rate":                           "出力フレームレート",
		"Effect (none, grayscale, edge, blur, sepia)": "エフェクト（none, grayscale, edge, blur, sepia）",
		"Skip the hardware H.264 encoder":             "ハードウェアH.264エンコーダーを使わない",
		"Path to ffmpeg executable":                   "ffmpeg実行ファイルのパス",
		"x264 preset":                                 "x264プリセット",
		"x264 CRF (0-51, lower is better)":            "x264のCRF値（0-51、低いほど高品質）",

		// Browser flags
		"Run browser in non-headless mode": "ブラウザを非ヘッドレスモードで実行",
		"Path to Chrome executable":        "Chrome実行ファイルのパス",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Record output
		"Encoder: %s": "エンコーダー: %s",
		"Frames: %d written, %d duplicated, %d dropped": "フレーム: 書き込み %d, 複製 %d, 破棄 %d",
		"Duration: %d ms, size: %d bytes":               "長さ: %d ms, サイズ: %d バイト",

		// Errors
		"--dir is required for the dir source": "dir ソースには --dir が必要です",
		"--url is required for the url source": "url ソースには --url が必要です",
		"unknown source %q":                    "不明なソース %q",
		"at least one file is required":        "ファイルを1つ以上指定してください",

		// Probe command
		"Show container, codec and frame count of recorded files":        "録画ファイルのコンテナ、コーデック、フレーム数を表示",
		"%s: %s/%s %dx%d, %d frames at %.2f fps, %d ms, %d bytes":        "%s: %s/%s %dx%d, %d フレーム %.2f fps, %d ms, %d バイト",

		// Encoders command
		"List the encoder fallback chain and what is available": "エンコーダーのフォールバック順と利用可否を表示",
		"available":   "利用可",
		"unavailable": "利用不可",

		// Version command
		"Show version information": "バージョン情報を表示",
		"recstream version %s":     "recstream バージョン %s",
	})
}
