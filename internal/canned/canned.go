// Package canned holds the fixed response sets behind the joke endpoints and
// the seedable uniform picker that serves them. Nothing here persists state.
package canned

import (
	"fmt"
	"math/rand"
	"sync"
)

// SuccessMessage greets a user who survived the registration gauntlet.
const SuccessMessage = "Поздравляем! Вы успешно прошли испытание регистрации! " +
	"Теперь вы можете насладиться неработоспособным функционалом."

// Races are the available character classes offered at registration.
var Races = []string{
	"Эльф-программист",
	"Орк-аналитик",
	"Гном-тестировщик",
	"Человек-менеджер",
	"Дракон-DevOps",
	"Хоббит-дизайнер",
	"Тролль-администратор",
}

// AbsurdTasks are the challenge prompts shown on the registration form.
var AbsurdTasks = []string{
	"Решите: Сколько чемпионов в LoL умеют летать задом наперед?",
	"Введите количество пикселей в логотипе Riot Games:",
	"Сколько раз Ясуо умер в вашей последней игре? (если не играли, придумайте)",
	"Какой цвет получится, если смешать синий и красный в мире Рунтерры?",
	"Введите ваш любимый номер от 1 до 999999:",
	"Сколько багов в среднем содержит одна строка кода?",
	"Назовите точное время, когда вы в последний раз выиграли в LoL:",
}

// StatsPayload is one canned /api/stats response.
type StatsPayload struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
	Status     string `json:"status"`
}

var statsPayloads = []StatsPayload{
	{
		Message:    "Функционал недоступен из-за технических работ или ваших собственных сомнений.",
		Error:      "В нашем мире работающее ПО - плохая примета",
		Suggestion: "Попробуйте помедитировать или выпить чай",
		Status:     "broken_by_design",
	},
	{
		Message:    "Статистика временно эмигрировала в параллельную вселенную",
		Error:      "404: Данные не найдены в этой реальности",
		Suggestion: "Попробуйте поискать в другом измерении",
		Status:     "interdimensional_error",
	},
	{
		Message:    "Сервер решил взять отпуск",
		Error:      "500: Внутренняя ошибка сервера (он устал)",
		Suggestion: "Дайте серверу отдохнуть",
		Status:     "server_on_vacation",
	},
}

var champions = []string{
	"Yasuo", "Zed", "Lee Sin", "Thresh", "Jinx", "Ahri", "Garen", "Darius",
	"Katarina", "Riven", "Vayne", "Lucian", "Ezreal", "Lux", "Morgana",
}

// ChampionStat is one fabricated champion statline.
type ChampionStat struct {
	Champion   string `json:"champion"`
	WinRate    string `json:"win_rate"`
	PickRate   string `json:"pick_rate"`
	BanRate    string `json:"ban_rate"`
	AverageKDA string `json:"average_kda"`
	Note       string `json:"note"`
}

// ChampionStats is the full /api/fake-champion-stats payload.
type ChampionStats struct {
	Message     string         `json:"message"`
	Disclaimer  string         `json:"disclaimer"`
	Champions   []ChampionStat `json:"champions"`
	LastUpdated string         `json:"last_updated"`
	Reliability string         `json:"reliability"`
}

// ServerStatus is one canned /api/server-status payload. Numeric-looking
// fields stay strings because half the answers are prose.
type ServerStatus struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Errors      string `json:"errors"`
	Warnings    string `json:"warnings"`
	MemoryUsage string `json:"memory_usage"`
	CPUUsage    string `json:"cpu_usage"`
	Message     string `json:"message"`
}

var feedbackAcks = []string{
	"Спасибо за отзыв! Мы его обязательно проигнорируем.",
	"Ваш отзыв очень важен для нас. Поэтому мы его удалили.",
	"Отзыв принят и отправлен в параллельную вселенную на рассмотрение.",
	"Благодарим за обратную связь! Она поможет нам стать еще хуже.",
	"Ваш отзыв сохранен в нашей базе данных несуществующих отзывов.",
}

var quotes = []string{
	"В мире программирования единственная константа - это баги.",
	"Код, который работает с первого раза, подозрителен.",
	"Лучший способ найти баг - показать код заказчику.",
	"Если программа работает, значит, вы что-то делаете не так.",
	"Документация - это теория. Код - это практика. Баги - это реальность.",
	"Программист - это человек, который решает проблемы, о существовании которых вы не подозревали, способами, которые вы не понимаете.",
	"Работающий код - это миф, как единороги и честные политики.",
}

// Quote is the /api/random-quote payload.
type Quote struct {
	Quote       string `json:"quote"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Reliability string `json:"reliability"`
}

// FeedbackAck is the /api/submit-feedback payload.
type FeedbackAck struct {
	Message    string `json:"message"`
	FeedbackID string `json:"feedback_id"`
	Status     string `json:"status"`
}

// Source draws uniformly from the canned sets. Construction takes a seed so
// tests can pin the draws; the mutex makes a shared instance safe across
// request handlers.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSource builds a picker seeded with the given value.
func NewSource(seed int64) *Source {
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

func (s *Source) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// Race returns a random character class.
func (s *Source) Race() string {
	return Races[s.intn(len(Races))]
}

// AbsurdTask returns a random registration challenge prompt.
func (s *Source) AbsurdTask() string {
	return AbsurdTasks[s.intn(len(AbsurdTasks))]
}

// LuckyNumber returns the register page's decorative number in [1, 100].
func (s *Source) LuckyNumber() int {
	return 1 + s.intn(100)
}

// Stats returns one of the fake stats payloads verbatim.
func (s *Source) Stats() StatsPayload {
	return statsPayloads[s.intn(len(statsPayloads))]
}

// FakeChampionStats fabricates statlines for five distinct champions.
func (s *Source) FakeChampionStats() ChampionStats {
	s.mu.Lock()
	picks := s.rnd.Perm(len(champions))[:5]
	s.mu.Unlock()

	stats := make([]ChampionStat, 0, len(picks))
	for _, i := range picks {
		stats = append(stats, ChampionStat{
			Champion: champions[i],
			WinRate:  fmt.Sprintf("%d%%", s.between(30, 70)),
			PickRate: fmt.Sprintf("%d%%", s.between(5, 25)),
			BanRate:  fmt.Sprintf("%d%%", s.between(0, 50)),
			AverageKDA: fmt.Sprintf("%d.%d/%d.%d/%d.%d",
				s.between(1, 5), s.between(0, 9),
				s.between(3, 8), s.between(0, 9),
				s.between(5, 15), s.between(0, 9)),
			Note: "Данные сгенерированы случайно и не отражают реальную статистику",
		})
	}

	return ChampionStats{
		Message:     "Внимание! Эта статистика полностью выдумана",
		Disclaimer:  "В нашем мире точные данные - плохая примета",
		Champions:   stats,
		LastUpdated: "Никогда",
		Reliability: "0%",
	}
}

// Status returns one of the two server-status payloads. Warning and error
// counters are re-rolled on every call.
func (s *Source) Status() ServerStatus {
	if s.intn(2) == 0 {
		return ServerStatus{
			Status:      "Работает неправильно",
			Uptime:      "5 минут (рекорд!)",
			Errors:      fmt.Sprintf("%d", s.between(100, 999)),
			Warnings:    fmt.Sprintf("%d", s.between(50, 200)),
			MemoryUsage: fmt.Sprintf("%d%%", s.between(80, 99)),
			CPUUsage:    fmt.Sprintf("%d%%", s.between(70, 100)),
			Message:     "Все идет по плану. План - сломать все.",
		}
	}
	return ServerStatus{
		Status:      "Критическая ошибка",
		Uptime:      "Отрицательное время",
		Errors:      "Слишком много для подсчета",
		Warnings:    "Игнорируются",
		MemoryUsage: "Вся доступная + немного чужой",
		CPUUsage:    "Больше 100% (не спрашивайте как)",
		Message:     "Сервер работает на чистом энтузиазме и кофеине.",
	}
}

// RandomQuote returns a random programming proverb.
func (s *Source) RandomQuote() Quote {
	return Quote{
		Quote:       quotes[s.intn(len(quotes))],
		Author:      "Неизвестный мудрец из IT",
		Category:    "Программистская мудрость",
		Reliability: "Сомнительная",
	}
}

// FeedbackResponse acknowledges a feedback submission with a fresh FB id.
func (s *Source) FeedbackResponse() FeedbackAck {
	return FeedbackAck{
		Message:    feedbackAcks[s.intn(len(feedbackAcks))],
		FeedbackID: fmt.Sprintf("FB-%d", s.between(10000, 99999)),
		Status:     "ignored_successfully",
	}
}

// between returns a uniform int in [lo, hi].
func (s *Source) between(lo, hi int) int {
	return lo + s.intn(hi-lo+1)
}
