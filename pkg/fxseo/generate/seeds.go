package generate

// Seed tables per topical group. Pure data.

var coreTerms = []string{
	"forex", "forex trading", "currency trading", "fx trading", "forex market",
	"foreign exchange", "forex trading online", "forex trading app", "forex signals",
	"forex news", "forex charts", "currency pairs", "pip value", "forex leverage",
	"forex spread", "forex trading hours", "forex calendar", "forex calculator",
	"major currency pairs", "exotic currency pairs", "forex liquidity", "forex volatility",
}

var brokerTerms = []string{
	"forex broker", "best forex broker", "forex broker review", "forex brokers comparison",
	"regulated forex broker", "ecn forex broker", "low spread forex broker",
	"forex broker with lowest fees", "top forex brokers", "forex broker vs cfd broker",
	"ic markets review", "pepperstone review", "oanda review", "xm review",
	"fxpro review", "ig markets review", "avatrade review", "exness review",
	"pepperstone vs ic markets", "oanda vs ig", "market maker broker", "stp broker",
}

var platformTerms = []string{
	"mt4", "mt5", "metatrader 4", "metatrader 5", "ctrader", "tradingview",
	"forex trading platform", "best forex trading platform", "mt4 vs mt5",
	"mt4 download", "mt5 indicators", "ctrader vs mt4", "forex trading platform for mac",
	"web trading platform", "mobile trading platform", "copy trading platform",
	"social trading platform", "automated trading platform",
}

var strategyTerms = []string{
	"forex trading strategy", "scalping strategy", "swing trading forex",
	"day trading forex", "forex trend following", "breakout strategy",
	"price action trading", "technical analysis forex", "fundamental analysis forex",
	"carry trade strategy", "moving average strategy", "rsi indicator strategy",
	"fibonacci retracement", "support and resistance", "risk management forex",
	"position sizing forex", "forex hedging strategy", "news trading strategy",
}

var educationTerms = []string{
	"learn forex trading", "forex trading tutorial", "forex course", "how to trade forex",
	"what is forex", "what is a pip", "what is leverage in forex", "forex trading guide",
	"forex basics", "forex glossary", "how to read forex charts", "how forex works",
	"forex trading for dummies", "forex books", "forex webinar", "forex trading psychology",
}

var regulationTerms = []string{
	"fca regulated forex broker", "asic regulated broker", "cysec regulated broker",
	"is forex trading legal", "forex regulation", "forex scam", "is forex a scam",
	"safe forex broker", "forex broker license check", "negative balance protection",
	"segregated client funds", "investor compensation scheme", "esma leverage limits",
}

var accountTerms = []string{
	"forex demo account", "open forex account", "islamic forex account",
	"ecn account", "standard account forex", "micro account forex", "cent account",
	"swap free account", "forex account minimum deposit", "managed forex account",
	"professional trader account", "high leverage account", "raw spread account",
}

var paymentTerms = []string{
	"forex deposit methods", "forex withdrawal time", "paypal forex broker",
	"skrill forex broker", "neteller forex broker", "forex broker bitcoin deposit",
	"credit card forex deposit", "bank transfer forex", "instant withdrawal forex broker",
	"forex payment methods", "withdrawal fees forex", "minimum deposit forex",
}

var geographicTerms = []string{
	"forex broker uk", "forex trading uk", "forex broker australia", "forex trading india",
	"forex broker south africa", "forex trading nigeria", "forex broker usa",
	"forex broker canada", "forex broker singapore", "forex trading dubai",
	"forex broker europe", "forex tax uk",
}

var experienceTerms = []string{
	"forex for beginners", "forex trading for beginners", "beginner forex strategy",
	"intermediate forex trading", "advanced forex strategies", "professional forex trading",
	"expert advisor forex", "forex trading career", "forex mentor",
}

var problemTerms = []string{
	"why forex traders lose money", "forex trading mistakes", "how to avoid forex scams",
	"losing money in forex", "forex margin call", "fix mt4 connection problem",
	"forex slippage problem", "why is my spread so high", "overtrading forex",
	"forex burnout", "revenge trading",
}

// DefaultModifiers is the long-tail vocabulary. Only the first
// MaxModifiers entries are used by ExpandLongTail.
var DefaultModifiers = []string{
	"2025", "for beginners", "review", "comparison", "guide",
	"tips", "uk", "australia", "app", "online",
	"pdf", "explained", "step by step", "for small accounts", "strategy",
	"free", "calculator", "course", "reddit", "youtube",
}
