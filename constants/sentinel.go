package constants

// NotSpecified is written to a cell when extraction found nothing for a
// planned field. A blank cell means "not yet processed"; this value means
// "processed, nothing found".
const NotSpecified = "Not specified"
