package deliver

import "fmt"

// User-facing texts. The bot answers in Russian, matching its audience.
const (
	msgGreeting = "Привет! Пришлите ссылку на видео или фотопост TikTok, и я скачаю его для вас."

	msgLinkRequired = "Пришлите ссылку на видео или фотопост TikTok."

	msgUnsupported = "Эта ссылка не поддерживается. Пришлите ссылку на TikTok."

	msgDownloading   = "Скачиваю медиа, подождите..."
	msgSendingVideo  = "Отправляю видео..."
	msgSendingAudio  = "Отправляю аудио..."
	msgSendingPhotos = "Отправляю фотографии..."
)

// failureText formats the in-place error shown on the status message
func failureText(err error) string {
	return fmt.Sprintf("Не удалось обработать ссылку: %v", err)
}
