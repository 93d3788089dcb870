// Package main provides localization for the pagecast CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":                "出力先",
		"Preset":                "プリセット",
		"Browser":               "ブラウザ設定",
		"Performance Emulation": "性能エミュレーション",
		"Recording":             "録画",
		"Video and Quality":     "動画と品質",
		"Debug":                 "デバッグ",
		"Logging":               "ログ",

		// Root command
		"Record web pages as constant frame rate videos":                                                                           "Webページを固定フレームレートの動画として録画",
		"pagecast captures a web page at irregular intervals and encodes the frames into a constant frame rate video with ffmpeg.": "pagecastはWebページを不規則な間隔でキャプチャし、ffmpegで固定フレームレートの動画にエンコードします。",

		// Record command
		"Record a web page as video":                                                                                                          "Webページを動画として録画",
		"Open the page in a browser, capture it until the duration elapses or the command is interrupted, and encode the frames with ffmpeg.": "ブラウザでページを開き、指定時間が経過するか中断されるまでキャプチャして、ffmpegでフレームをエンコードします。",

		// Version command
		"Show version information": "バージョン情報を表示",
		"pagecast version %s":      "pagecast バージョン %s",

		// Output flags
		"Output video file path (mp4, mov, avi, webm)":                "出力動画ファイルパス（mp4, mov, avi, webm）",
		"Configuration file (YAML or TOML)":                           "設定ファイル（YAML または TOML）",
		"Write a run summary to file (Markdown, or a table for .txt)": "実行サマリーをファイルに出力（Markdown、.txt は表形式）",

		// Preset flags
		"Device preset (desktop, mobile)":    "デバイスプリセット（desktop, mobile）",
		"Quality preset (low, medium, high)": "品質プリセット（low, medium, high）",

		// Browser flags
		"Capture engine (chromedp, playwright, synthetic)":  "キャプチャエンジン（chromedp, playwright, synthetic）",
		"Run browser in non-headless mode":                  "ブラウザを非ヘッドレスモードで実行",
		"Path to Chrome executable":                         "Chrome実行ファイルのパス",
		"Custom User-Agent string":                          "カスタムUser-Agent文字列",
		"Extra HTTP header as \"Name: value\" (repeatable)": "追加のHTTPヘッダー \"Name: value\"（複数指定可）",
		"Ignore HTTPS certificate errors":                   "HTTPS証明書エラーを無視",
		"HTTP proxy server (e.g., http://proxy:8080)":       "HTTPプロキシサーバー（例: http://proxy:8080）",
		"Use an incognito browser profile":                  "シークレットモードのプロファイルを使用",

		// Emulation flags
		"Browser viewport width":                                     "ブラウザのビューポート幅",
		"Browser viewport height":                                    "ブラウザのビューポート高さ",
		"Device pixel ratio":                                         "デバイスピクセル比",
		"Download speed in Mbps (0 = unlimited)":                     "ダウンロード速度（Mbps、0 = 無制限）",
		"Upload speed in Mbps (0 = unlimited)":                       "アップロード速度（Mbps、0 = 無制限）",
		"Added network latency in milliseconds":                      "追加するネットワーク遅延（ミリ秒）",
		"Emulate an offline network":                                 "オフライン状態をエミュレート",
		"CPU slowdown factor (1.0 = no throttling, 4.0 = 4x slower)": "CPUスローダウン係数（1.0 = 制限なし、4.0 = 4倍遅く）",

		// Recording flags
		"Recording length (0 records until interrupted)":         "録画時間（0 は中断されるまで録画）",
		"Output frame rate":                                      "出力フレームレート",
		"Frames held for reordering (min: 2)":                    "並べ替えのために保持するフレーム数（最小: 2）",
		"Capture image format (jpeg, png)":                       "キャプチャ画像形式（jpeg, png）",
		"Capture JPEG quality (0-100, overrides quality preset)": "キャプチャのJPEG品質（0-100、品質プリセットを上書き）",

		// Video flags
		"Video CRF value (0-63, lower is better, overrides quality preset)": "動画のCRF値（0-63、低いほど高品質、品質プリセットを上書き）",
		"ffmpeg video codec":                                                "ffmpegの動画コーデック",
		"ffmpeg encoder preset":                                             "ffmpegのエンコーダプリセット",
		"Target bitrate in kbit/s":                                          "目標ビットレート（kbit/s）",
		"Output video width (0 = captured size)":                            "出力動画の幅（0 = キャプチャサイズ）",
		"Output video height (0 = captured size)":                           "出力動画の高さ（0 = キャプチャサイズ）",
		"Display aspect ratio (e.g., 16:9)":                                 "表示アスペクト比（例: 16:9）",
		"Pad instead of stretching to the output size":                      "出力サイズに合わせて引き伸ばさず余白を追加",
		"Cap the video length (0 = as long as the recording)":               "動画の長さの上限（0 = 録画と同じ長さ）",
		"Container metadata as key=value (repeatable)":                      "コンテナのメタデータ key=value（複数指定可）",
		"Path to ffmpeg executable":                                         "ffmpeg実行ファイルのパス",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Recording %s with %s at %g fps...": "%s を %s で %g fps 録画中...",
		"Interrupted, finishing video...":   "中断されました。動画を確定しています...",
		"URL argument is required":          "URL引数が必要です",
		"Summary saved to %s":               "サマリーを %s に保存しました",
		"Failed to write summary: %s":       "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Recording Summary": "録画サマリー",
		"Generated":         "生成日時",
		"Page":              "ページ",
		"Title":             "タイトル",
		"URL":               "URL",
		"Session":           "セッション",
		"Settings":          "設定",
		"Video":             "動画",
		"Item":              "項目",
		"Value":             "値",

		// Session section
		"Session ID":         "セッションID",
		"Stopped by":         "停止理由",
		"Elapsed":            "経過時間",
		"Frames captured":    "キャプチャしたフレーム",
		"Capture failures":   "キャプチャ失敗",
		"Buffer flushes":     "バッファのフラッシュ",
		"Encoder frames":     "エンコーダフレーム",
		"Frames skipped":     "スキップしたフレーム",
		"Video length":       "動画の長さ",
		"duration limit":     "時間制限",
		"interrupted":        "中断",
		"encoder failure":    "エンコーダ障害",
		"video length limit": "動画の長さの上限",

		// Settings section
		"Quality":         "品質",
		"Engine":          "エンジン",
		"Codec":           "コーデック",
		"Frame rate":      "フレームレート",
		"Buffer capacity": "バッファ容量",
		"Capture format":  "キャプチャ形式",
		"Viewport":        "ビューポート",
		"Download speed":  "ダウンロード速度",
		"Upload speed":    "アップロード速度",
		"CPU throttling":  "CPUスロットリング",
		"unlimited":       "無制限",
		"none":            "なし",

		// Video section
		"File":                             "ファイル",
		"Details":                          "詳細",
		"not available for this container": "このコンテナでは取得できません",
		"Frames":                           "フレーム数",
		"Duration":                         "再生時間",
		"Size":                             "サイズ",
		"File size":                        "ファイルサイズ",
		"Encoded up to":                    "エンコード済みの位置",
		"Encoder input":                    "エンコーダへの入力",
	})
}
