package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration
		"Starting pipeline":                         "パイプラインを開始します",
		"Pipeline completed successfully":           "パイプラインが正常に完了しました",
		"Video streamed to standard output":         "動画を標準出力に送信しました",
		"Output saved to %s":                        "出力を %s に保存しました",
		"Recorded %d frames into %d encoder frames": "%d フレームを記録し、%d エンコーダフレームを出力しました",
		"Recording interrupted, video finalized":    "録画が中断されましたが、動画は確定しました",
		"Failed to record page: %s":                 "ページの録画に失敗しました: %s",
		"Failed to inspect output: %v":              "出力の検査に失敗しました: %v",
		"Failed to save config: %v":                 "設定の保存に失敗しました: %v",
		"Failed to release output lock: %v":         "出力ロックの解放に失敗しました: %v",

		// Record stage (browser component)
		"Launching browser in headless mode":                                "ヘッドレスモードでブラウザを起動中",
		"Launching browser in visible mode":                                 "表示モードでブラウザを起動中",
		"Navigating to %s":                                                  "%s へ移動中",
		"Setting network conditions: %d ms latency, %d bps down, %d bps up": "ネットワーク条件を設定: レイテンシ %d ms, ダウン %d bps, アップ %d bps",
		"Setting CPU throttling: %.1fx slowdown":                            "CPUスロットリングを設定: %.1f倍 減速",
		"Stopping recording (%s)":                                           "録画を停止します (%s)",
		"Browser closed":                                                    "ブラウザを閉じました",
		"Error closing browser: %v":                                         "ブラウザの終了中にエラー: %v",
		"Failed to read page info: %v":                                      "ページ情報の取得に失敗しました: %v",
		"Failed to save session stats: %v":                                  "セッション統計の保存に失敗しました: %v",
		"Installing Playwright driver":                                      "Playwrightドライバーをインストール中",
		"Error detaching session: %v":                                       "セッションの切断中にエラー: %v",
		"Synthetic browser ready":                                           "合成ブラウザの準備ができました",

		// Session
		"Session %s started at %.0f fps":                            "セッション %s を %.0f fps で開始しました",
		"Session %s stopped: %d frames captured, %d encoder frames": "セッション %s を停止: %d フレームをキャプチャ, %d エンコーダフレーム",
		"Session %s stopped with error: %v":                         "セッション %s がエラーで停止しました: %v",
		"Failed to save raw frame %d: %v":                           "生フレーム %d の保存に失敗しました: %v",
		"Encoder failed: %v":                                        "エンコーダが失敗しました: %v",
		"Ignoring further encoder error: %v":                        "以降のエンコーダエラーを無視します: %v",
		"Encoder stopped accepting input after %d frames":           "エンコーダが %d フレームで入力の受け付けを終了しました",

		// Capture
		"Capturing every %s":                  "%s ごとにキャプチャします",
		"Error capturing frame: %v":           "フレームのキャプチャ中にエラー: %v",
		"Empty capture, tick skipped":         "キャプチャが空のため、このティックをスキップしました",
		"Error releasing capture session: %v": "キャプチャセッションの解放中にエラー: %v",

		// Buffer and reconciler
		"Flushing %d frames (chunk end %.3f)":                      "%d フレームをフラッシュ (チャンク終端 %.3f)",
		"Skipping frame at %.3f (%.3fs) to pay back banked frames": "繰越フレームを返済するため %.3f のフレーム (%.3f秒) をスキップ",

		// Encoder
		"Starting ffmpeg: %s %s":                   "ffmpegを起動: %s %s",
		"ffmpeg: %s":                               "ffmpeg: %s",
		"Error unable to capture video stream: %s": "動画ストリームを出力できません: %s",
		"Closing ffmpeg input: %v":                 "ffmpegの入力を閉じる際のエラー: %v",
		"ffmpeg finished after %d frames":          "ffmpegが %d フレームで終了しました",
		"ffmpeg stopped reading after %d frames":   "ffmpegが %d フレームで読み込みを終了しました",

		// Probe stage
		"Skipping probe of %s":                  "%s の検査をスキップします",
		"Video probed: %d frames, %d ms, %dx%d": "動画検査: %d フレーム, %d ms, %dx%d",
	})
}
