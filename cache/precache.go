package cache

// Shell pages and fixed documents fetched at install time. Every path must
// exist upstream or the install step fails as a whole. Changing this list
// requires bumping CACHE_VERSION so clients pick up the new static bucket.

var shellPages = []string{
	"/",
	"/schedule",
	"/hotels",
	"/budget",
	"/settle",
	"/weather",
	"/resources",
}

var shellDocuments = []string{
	"/vouchers/flight-outbound.pdf",
	"/vouchers/flight-return.pdf",
	"/vouchers/hotel-booking.pdf",
	"/vouchers/train-tickets.pdf",
	"/vouchers/travel-insurance.pdf",
}

// DefaultPrecache returns the fixed pre-cache list, optionally extended
// with deployment-specific extra paths.
func DefaultPrecache(extra ...string) []string {
	list := make([]string, 0, len(shellPages)+len(shellDocuments)+len(extra))
	list = append(list, shellPages...)
	list = append(list, shellDocuments...)
	list = append(list, extra...)
	return list
}
