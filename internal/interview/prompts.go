package interview

// Interview prompts, asked in statutory rank order.
const (
	promptIntro = "相続情報の収集を開始します。いくつか質問にお答えください。"

	promptDecedentName      = "被相続人（亡くなられた方）のお名前を教えてください。"
	promptDecedentDeathDate = "死亡日を教えてください（例: 令和5年10月3日、2023-10-03）。"
	promptDecedentBirthDate = "生年月日を教えてください（不明の場合は「不明」とお答えください）。"

	promptSpouseQuestion = "配偶者はいらっしゃいますか？（はい/いいえ）"
	promptSpouseName     = "配偶者のお名前を教えてください。"

	promptChildrenQuestion = "お子様はいらっしゃいますか？（はい/いいえ）"
	promptChildrenNames    = "お子様のお名前を教えてください（複数の場合は「、」で区切ってください）。"

	promptParentsQuestion = "ご両親のうちご存命の方はいらっしゃいますか？（はい/いいえ）"
	promptParentsNames    = "ご存命のご両親のお名前を教えてください（複数の場合は「、」で区切ってください）。"

	promptSiblingsQuestion = "兄弟姉妹はいらっしゃいますか？（はい/いいえ）"
	promptSiblingsNames    = "兄弟姉妹のお名前を教えてください（複数の場合は「、」で区切ってください）。"

	promptSpecialCases = "相続放棄をされた方はいらっしゃいますか？（いる場合はお名前を、いない場合は「いいえ」とお答えください）"

	promptConfirmation = "以上の内容でよろしいですか？（はい/いいえ）"
	promptCompleted    = "インタビューは完了しました。ありがとうございました。"
	promptRestart      = "最初からやり直します。\n\n" + promptDecedentName

	promptInvalidDate   = "申し訳ございません。日付の形式が正しくありません。"
	promptNothingToHear = "インタビューは完了しています。"
)
