package format

import (
	"fmt"

	"party-finder-bot/internal/model"
)

// pick returns the variant matching the language.
func pick(lang model.Language, ru, en string) string {
	if lang.IsRU() {
		return ru
	}
	return en
}

// NotSpecified is the placeholder for empty optional fields.
func NotSpecified(lang model.Language) string {
	return pick(lang, "Не указано", "Not specified")
}

var fieldLabels = map[model.ProfileField][2]string{
	model.FieldNickname:   {"Никнейм", "Nickname"},
	model.FieldGameUserID: {"ID игрока", "User ID"},
	model.FieldTrophies:   {"Трофеи", "Trophies"},
	model.FieldValorPath:  {"Путь доблести", "Valor Path"},
	model.FieldSyndicate:  {"Синдикат", "Syndicate"},
	model.FieldName:       {"Имя", "Name"},
	model.FieldAge:        {"Возраст", "Age"},
	model.FieldGender:     {"Пол", "Gender"},
	model.FieldCountry:    {"Страна", "Country"},
	model.FieldCity:       {"Город", "City"},
}

// FieldLabel returns the display label of a profile field.
func FieldLabel(field model.ProfileField, lang model.Language) string {
	l, ok := fieldLabels[field]
	if !ok {
		return string(field)
	}
	if lang.IsRU() {
		return l[0]
	}
	return l[1]
}

var fieldPrompts = map[model.ProfileField][2]string{
	model.FieldNickname:   {"Введите ваш никнейм:", "Enter your nickname:"},
	model.FieldGameUserID: {"Введите ваш ID игрока:", "Enter your user ID:"},
	model.FieldTrophies:   {"Введите количество Трофеев (целое число, например, 1500):", "Enter your Trophies (integer, e.g., 1500):"},
	model.FieldValorPath:  {"Введите количество очков Пути доблести (целое число, например, 500):", "Enter your Valor Path points (integer, e.g., 500):"},
	model.FieldSyndicate:  {"Введите ваш синдикат:", "Enter your syndicate:"},
	model.FieldName:       {"Введите ваше имя:", "Enter your name:"},
	model.FieldAge:        {"Введите ваш возраст:", "Enter your age:"},
	model.FieldGender:     {"Введите ваш пол (М/Ж):", "Enter your gender (Male/Female):"},
	model.FieldCountry:    {"Введите вашу страну:", "Enter your country:"},
	model.FieldCity:       {"Введите ваш город:", "Enter your city:"},
}

// FieldPrompt returns the input prompt of a profile field.
func FieldPrompt(field model.ProfileField, lang model.Language) string {
	p, ok := fieldPrompts[field]
	if !ok {
		return string(field)
	}
	if lang.IsRU() {
		return p[0]
	}
	return p[1]
}

var heroFieldLabels = map[model.HeroField][2]string{
	model.HeroFieldLevel:         {"Уровень", "Level"},
	model.HeroFieldBattlesPlayed: {"Битвы", "Battles played"},
	model.HeroFieldHeroesKilled:  {"Убито героев", "Heroes killed"},
	model.HeroFieldWinPercentage: {"Процент побед", "Win percentage"},
	model.HeroFieldHeroesRevived: {"Воскрешено героев", "Heroes revived"},
	model.HeroFieldStrength:      {"Сила", "Strength"},
}

// HeroFieldLabel returns the display label of a hero stat.
func HeroFieldLabel(field model.HeroField, lang model.Language) string {
	l, ok := heroFieldLabels[field]
	if !ok {
		return string(field)
	}
	if lang.IsRU() {
		return l[0]
	}
	return l[1]
}

// HeroFieldPrompt asks for a new stat value.
func HeroFieldPrompt(field model.HeroField, lang model.Language) string {
	if field == model.HeroFieldWinPercentage {
		return pick(lang,
			"Введите процент побед (от 0 до 100, например, 52,3):",
			"Enter the win percentage (0 to 100, e.g., 52.3):")
	}
	return pick(lang,
		"Введите значение «"+HeroFieldLabel(field, lang)+"» (целое число):",
		"Enter the "+HeroFieldLabel(field, lang)+" value (integer):")
}

var searchFieldLabels = map[model.SearchField][2]string{
	model.SearchByNickname:   {"Никнейм", "Nickname"},
	model.SearchByGameUserID: {"ID игрока", "User ID"},
	model.SearchByCity:       {"Город", "City"},
	model.SearchBySyndicate:  {"Синдикат", "Syndicate"},
	model.SearchByUsername:   {"Telegram", "Telegram"},
}

// SearchFieldLabel returns the display label of a search attribute.
func SearchFieldLabel(field model.SearchField, lang model.Language) string {
	l, ok := searchFieldLabels[field]
	if !ok {
		return string(field)
	}
	if lang.IsRU() {
		return l[0]
	}
	return l[1]
}

var gameModeLabels = map[model.GameMode][2]string{
	model.ModeBattleRoyale:   {"Королевская битва", "Battle Royale"},
	model.ModeTeamVsTeam:     {"Стенка на стенку", "Team vs Team"},
	model.ModeArcade:         {"Аркада", "Arcade"},
	model.ModeSabotage:       {"Саботаж", "Sabotage"},
	model.ModeTeamDeathmatch: {"Командный бой", "Team Deathmatch"},
}

// GameModeLabel returns the display label of a game mode.
func GameModeLabel(mode model.GameMode, lang model.Language) string {
	l, ok := gameModeLabels[mode]
	if !ok {
		return string(mode)
	}
	if lang.IsRU() {
		return l[0]
	}
	return l[1]
}

// Common one-line messages.

func MsgMainMenu(lang model.Language) string {
	return pick(lang, "Главное меню:", "Main menu:")
}

func MsgSettings(lang model.Language) string {
	return pick(lang, "Настройки. Выберите язык:", "Settings. Choose a language:")
}

func MsgChooseField(lang model.Language) string {
	return pick(lang, "Выберите поле для редактирования:", "Choose a field to edit:")
}

func MsgChooseClass(lang model.Language) string {
	return pick(lang, "Выберите класс героя:", "Choose a hero class:")
}

func MsgChooseHeroToAdd(lang model.Language) string {
	return pick(lang, "Выберите героя для добавления:", "Choose a hero to add:")
}

func MsgStartPrompt(lang model.Language) string {
	return pick(lang, "Пожалуйста, начните с команды /start.", "Please start with the /start command.")
}

func MsgNotRegistered(lang model.Language) string {
	return pick(lang,
		"Вы не зарегистрированы. Используйте команду /start для регистрации.",
		"You are not registered. Use /start to register.")
}

func MsgChooseLanguage() string {
	return "Пожалуйста, выберите язык через кнопку / Please select a language using the button."
}

func MsgEnterNonNegative(lang model.Language) string {
	return pick(lang, "Введите целое неотрицательное число.", "Enter a non-negative integer.")
}

func MsgFieldUpdated(lang model.Language) string {
	return pick(lang, "Поле обновлено!", "Field updated!")
}

func MsgRegistrationCompleted(lang model.Language) string {
	return pick(lang, "Регистрация завершена!", "Registration completed!")
}

func MsgHeroAdded(lang model.Language) string {
	return pick(lang, "Герой добавлен!", "Hero added!")
}

func MsgDuplicateHero(lang model.Language) string {
	return pick(lang, "Этот герой уже добавлен.", "This hero is already added.")
}

func MsgHeroStatsUpdated(lang model.Language) string {
	return pick(lang, "Статистика героя обновлена!", "Hero stats updated!")
}

func MsgPrimaryHeroSet(lang model.Language) string {
	return pick(lang, "Основной герой выбран!", "Primary hero set!")
}

func MsgHeroNotFound(name string, lang model.Language) string {
	return pick(lang, "Герой \""+name+"\" не найден у вас.", "Hero \""+name+"\" not found.")
}

func MsgPartyNotFound(lang model.Language) string {
	return pick(lang, "Пати не найдена.", "Party not found.")
}

func MsgOwnParty(lang model.Language) string {
	return pick(lang, "Вы не можете подать заявку на свою пати.", "You cannot apply to your own party.")
}

func MsgAlreadyApplied(lang model.Language) string {
	return pick(lang, "Вы уже подали заявку на эту пати.", "You have already applied to this party.")
}

func MsgApplicationSent(lang model.Language) string {
	return pick(lang, "Заявка отправлена организатору!", "Application sent to the organizer!")
}

func MsgApplicationAccepted(lang model.Language) string {
	return pick(lang, "✅ Ваша заявка принята!", "✅ Your application was accepted!")
}

func MsgApplicationRejected(lang model.Language) string {
	return pick(lang, "❌ Ваша заявка отклонена.", "❌ Your application was rejected.")
}

func MsgPartyAssembled(lang model.Language) string {
	return pick(lang, "✅ Ваша пати собрана! Проверьте личные сообщения.", "✅ Your party is complete! Check your direct messages.")
}

func MsgChooseMode(lang model.Language) string {
	return pick(lang, "Выберите режим игры:", "Choose a game mode:")
}

func MsgChoosePlayers(lang model.Language) string {
	return pick(lang, "Сколько игроков нужно найти?", "How many players do you need?")
}

func MsgChoosePartyHero(lang model.Language) string {
	return pick(lang, "Выберите героя, за которого будете играть:", "Choose the hero you will play:")
}

func MsgNoHeroesOfClass(lang model.Language) string {
	return pick(lang,
		"У вас нет героев этого класса. Сначала добавьте героя в меню «Герои».",
		"You have no heroes of this class. Add one in the Heroes menu first.")
}

func MsgPartyPosted(lang model.Language) string {
	return pick(lang,
		"Набор в пати опубликован в группе!",
		"The party recruitment has been posted to the group!")
}

func MsgApplicationNotFound(lang model.Language) string {
	return pick(lang, "Заявка не найдена.", "Application not found.")
}

func MsgPartyAlreadyFull(lang model.Language) string {
	return pick(lang, "Пати уже собрана.", "The party is already full.")
}

func MsgDecisionDone(accepted bool, lang model.Language) string {
	if accepted {
		return pick(lang, "Заявка принята.", "Application accepted.")
	}
	return pick(lang, "Заявка отклонена.", "Application rejected.")
}

// MsgPartyAssembledContact is the private notice every member gets when
// the party completes.
func MsgPartyAssembledContact(mode model.GameMode, organizer *model.User, lang model.Language) string {
	contact := fmt.Sprintf("%d", organizer.TelegramID)
	if organizer.TelegramUsername != nil && *organizer.TelegramUsername != "" {
		contact = "@" + *organizer.TelegramUsername
	}
	return pick(lang,
		"Пати "+GameModeLabel(mode, lang)+" собрана! Свяжитесь с создателем: "+contact,
		"The "+GameModeLabel(mode, lang)+" party is complete! Contact the organizer: "+contact)
}

func MsgNotOrganizer(lang model.Language) string {
	return pick(lang, "Решение может принять только организатор.", "Only the organizer can decide.")
}

func MsgChooseSearchType(lang model.Language) string {
	return pick(lang, "Что будем искать?", "What are we searching for?")
}

func MsgChooseSearchField(lang model.Language) string {
	return pick(lang, "Выберите параметр поиска:", "Choose a search attribute:")
}

func MsgEnterSearchValue(field model.SearchField, lang model.Language) string {
	return pick(lang,
		"Введите значение для поиска по параметру «"+SearchFieldLabel(field, lang)+"»:",
		"Enter the value to search by "+SearchFieldLabel(field, lang)+":")
}

func MsgUserNotFound(lang model.Language) string {
	return pick(lang, "Пользователь не найден.", "User not found.")
}

func MsgNothingFound(lang model.Language) string {
	return pick(lang, "Ничего не найдено.", "Nothing found.")
}

func MsgUseMenu(lang model.Language) string {
	return pick(lang, "Пожалуйста, используйте меню.", "Please use the menu.")
}

func MsgError(lang model.Language) string {
	return pick(lang, "❌ Произошла ошибка.", "❌ An error occurred.")
}

func MsgGroupOnlyPrivate(lang model.Language) string {
	return pick(lang,
		"Напишите мне в личные сообщения, чтобы зарегистрироваться.",
		"Message me in a private chat to register.")
}

// MsgRegisterFirst is sent when an unregistered user runs a group
// command. The language is unknown, so both are shown.
const MsgRegisterFirst = "🇷🇺 Пожалуйста, пройдите регистрацию в личном чате с ботом, чтобы использовать команды в группе.\n" +
	"🇬🇧 Please complete registration in a private chat with the bot to use commands in the group."

// MsgUnknownCommand is the private-chat fallback for unrecognized slash
// commands.
const MsgUnknownCommand = "🇷🇺 Неизвестная команда.\n🇬🇧 Unknown command."

func MsgGroupsOnly(lang model.Language) string {
	return pick(lang, "Эта команда доступна только в группах.", "This command is only available in groups.")
}

func MsgHeroNameUnknown(lang model.Language) string {
	return pick(lang,
		"Герой не найден. Укажите правильное имя героя.",
		"Hero not found. Please specify a valid hero name.")
}

func MsgUserHasNoHero(nickname, heroName string, lang model.Language) string {
	return pick(lang,
		"У пользователя "+nickname+" нет героя \""+heroName+"\".",
		"User "+nickname+" does not have the hero \""+heroName+"\".")
}
