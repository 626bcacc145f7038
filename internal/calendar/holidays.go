package calendar

// fixedHolidays are the solar-calendar public holidays of Korea, keyed by
// one-based month and day. Lunar holidays (설날, 추석, 부처님오신날) move every
// year and are not listed.
var fixedHolidays = map[[2]int]string{
	{1, 1}:   "신정",
	{3, 1}:   "삼일절",
	{5, 5}:   "어린이날",
	{6, 6}:   "현충일",
	{8, 15}:  "광복절",
	{10, 3}:  "개천절",
	{10, 9}:  "한글날",
	{12, 25}: "성탄절",
}

// Holidays returns the fixed public holidays of a year keyed by DateKey
func Holidays(year int) map[DateKey]string {
	holidays := make(map[DateKey]string, len(fixedHolidays))
	for md, name := range fixedHolidays {
		holidays[DateKey{Year: year, Month: md[0] - 1, Day: md[1]}] = name
	}
	return holidays
}

// HolidayName returns the holiday on k, or "" if there is none
func HolidayName(k DateKey) string {
	return fixedHolidays[[2]int{k.Month + 1, k.Day}]
}
