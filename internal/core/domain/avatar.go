package domain

import "unicode/utf16"

// Avatar - детерминированный эмодзи-аватар пользователя с отображаемым именем.
type Avatar struct {
	Emoji string
	Name  string
}

const defaultAvatarName = "User"

var avatarTable = []Avatar{
	{"\U0001F469\u200D\U0001F4BC", "Alice"},
	{"\U0001F468\u200D\U0001F4BC", "Bob"},
	{"\U0001F469\u200D\U0001F52C", "Diana"},
	{"\U0001F468\u200D\U0001F52C", "Carl"},
	{"\U0001F469\u200D\U0001F4BB", "Eva"},
	{"\U0001F468\u200D\U0001F4BB", "Frank"},
	{"\U0001F469\u200D\U0001F3A8", "Grace"},
	{"\U0001F468\u200D\U0001F3A8", "Henry"},
	{"\U0001F469\u200D\U0001F3EB", "Iris"},
	{"\U0001F468\u200D\U0001F3EB", "Jack"},
	{"\U0001F469\u200D\u2695\uFE0F", "Kate"},
	{"\U0001F468\u200D\u2695\uFE0F", "Leo"},
	{"\U0001F469\u200D\U0001F33E", "Maya"},
	{"\U0001F468\u200D\U0001F33E", "Nick"},
	{"\U0001F469\u200D\U0001F373", "Olive"},
	{"\U0001F468\u200D\U0001F373", "Paul"},
	{"\U0001F469\u200D\U0001F527", "Quinn"},
	{"\U0001F468\u200D\U0001F527", "Ryan"},
	{"\U0001F469\u200D\u2708\uFE0F", "Sophia"},
	{"\U0001F468\u200D\u2708\uFE0F", "Tom"},
	{"\U0001F469\u200D\U0001F680", "Uma"},
	{"\U0001F468\u200D\U0001F680", "Victor"},
	{"\U0001F469\u200D\u2696\uFE0F", "Wendy"},
	{"\U0001F468\u200D\u2696\uFE0F", "Xavier"},
	{"\U0001F9D1\u200D\U0001F4BC", "Yuki"},
	{"\U0001F9D1\u200D\U0001F52C", "Zara"},
	{"\U0001F9D1\u200D\U0001F4BB", "Alex"},
	{"\U0001F9D1\u200D\U0001F3A8", "Blake"},
	{"\U0001F9D1\u200D\U0001F3EB", "Casey"},
	{"\U0001F9D1\u200D\u2695\uFE0F", "Drew"},
}

// AvatarFor выбирает аватар по идентификатору пользователя.
// Хеш считается по UTF-16 кодам символов с 32-битным переполнением: h = h*31 + c.
func AvatarFor(seed string) Avatar {
	var hash int32
	for _, c := range utf16.Encode([]rune(seed)) {
		hash = (hash << 5) - hash + int32(c)
	}
	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return avatarTable[idx%int64(len(avatarTable))]
}

// AvatarName возвращает имя для эмодзи или "User", если эмодзи неизвестен.
func AvatarName(emoji string) string {
	for _, a := range avatarTable {
		if a.Emoji == emoji {
			return a.Name
		}
	}
	return defaultAvatarName
}
