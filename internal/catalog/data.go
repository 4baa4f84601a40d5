package catalog

import "MarketLens/internal/model"

// Companies is the headline list served by /api/companies.
var Companies = []model.Instrument{
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries", Country: "India"},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Country: "India"},
	{Symbol: "INFY.NS", Name: "Infosys", Country: "India"},
	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank", Country: "India"},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank", Country: "India"},
	{Symbol: "AAPL", Name: "Apple Inc.", Country: "USA"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Country: "USA"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Country: "USA"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Country: "USA"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Country: "USA"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Country: "USA"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Country: "USA"},
}

// Extended widens the search universe beyond Companies.
var Extended = []model.Instrument{
	// US tech
	{Symbol: "AAPL", Name: "Apple Inc.", Country: "USA", Sector: "Technology"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Country: "USA", Sector: "Technology"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Country: "USA", Sector: "Technology"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Country: "USA", Sector: "E-commerce"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Country: "USA", Sector: "Automotive"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Country: "USA", Sector: "Technology"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Country: "USA", Sector: "Technology"},
	{Symbol: "NFLX", Name: "Netflix Inc.", Country: "USA", Sector: "Entertainment"},
	{Symbol: "CRM", Name: "Salesforce Inc.", Country: "USA", Sector: "Technology"},
	{Symbol: "ORCL", Name: "Oracle Corporation", Country: "USA", Sector: "Technology"},

	// US financial and others
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Country: "USA", Sector: "Financial"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Country: "USA", Sector: "Healthcare"},
	{Symbol: "V", Name: "Visa Inc.", Country: "USA", Sector: "Financial"},
	{Symbol: "PG", Name: "Procter & Gamble Co.", Country: "USA", Sector: "Consumer Goods"},
	{Symbol: "UNH", Name: "UnitedHealth Group Inc.", Country: "USA", Sector: "Healthcare"},
	{Symbol: "HD", Name: "Home Depot Inc.", Country: "USA", Sector: "Retail"},
	{Symbol: "MA", Name: "Mastercard Inc.", Country: "USA", Sector: "Financial"},
	{Symbol: "BAC", Name: "Bank of America Corp.", Country: "USA", Sector: "Financial"},
	{Symbol: "XOM", Name: "Exxon Mobil Corporation", Country: "USA", Sector: "Energy"},
	{Symbol: "WMT", Name: "Walmart Inc.", Country: "USA", Sector: "Retail"},

	// NSE
	{Symbol: "RELIANCE.NS", Name: "Reliance Industries Limited", Country: "India", Sector: "Energy"},
	{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Country: "India", Sector: "Technology"},
	{Symbol: "HDFCBANK.NS", Name: "HDFC Bank Limited", Country: "India", Sector: "Banking"},
	{Symbol: "INFY.NS", Name: "Infosys Limited", Country: "India", Sector: "Technology"},
	{Symbol: "ICICIBANK.NS", Name: "ICICI Bank Limited", Country: "India", Sector: "Banking"},
	{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever Limited", Country: "India", Sector: "FMCG"},
	{Symbol: "ITC.NS", Name: "ITC Limited", Country: "India", Sector: "FMCG"},
	{Symbol: "SBIN.NS", Name: "State Bank of India", Country: "India", Sector: "Banking"},
	{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel Limited", Country: "India", Sector: "Telecom"},
	{Symbol: "KOTAKBANK.NS", Name: "Kotak Mahindra Bank", Country: "India", Sector: "Banking"},
	{Symbol: "LT.NS", Name: "Larsen & Toubro Limited", Country: "India", Sector: "Infrastructure"},
	{Symbol: "ASIANPAINT.NS", Name: "Asian Paints Limited", Country: "India", Sector: "Paints"},
	{Symbol: "MARUTI.NS", Name: "Maruti Suzuki India Limited", Country: "India", Sector: "Automotive"},
	{Symbol: "HCLTECH.NS", Name: "HCL Technologies Limited", Country: "India", Sector: "Technology"},
	{Symbol: "WIPRO.NS", Name: "Wipro Limited", Country: "India", Sector: "Technology"},

	// Global
	{Symbol: "BABA", Name: "Alibaba Group Holding", Country: "China", Sector: "E-commerce"},
	{Symbol: "TSM", Name: "Taiwan Semiconductor", Country: "Taiwan", Sector: "Technology"},
	{Symbol: "NESN.SW", Name: "Nestle SA", Country: "Switzerland", Sector: "Food & Beverage"},
	{Symbol: "ASML", Name: "ASML Holding NV", Country: "Netherlands", Sector: "Technology"},
	{Symbol: "SAP", Name: "SAP SE", Country: "Germany", Sector: "Technology"},
}

// SearchUniverse is Companies followed by Extended, de-duplicated.
func SearchUniverse() []model.Instrument {
	return Merge(Companies, Extended)
}
