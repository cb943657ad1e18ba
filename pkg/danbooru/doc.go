// Package danbooru provides a small client for the read-only parts of the
// Danbooru JSON API used by the tag scraper.
//
// Two levels are exposed. SearchTags and SearchWikiPages return decoded
// results or a typed *errors.Error wrapped with the query. LookupCategory and
// LookupDescription sit on top of them and collapse every failure into
// "absent", logging the cause, which is what the classifier wants:
//
//	client := danbooru.NewClient(danbooru.Options{Timeout: 10 * time.Second}, log)
//	if category, ok := client.LookupCategory(ctx, "1girl"); ok {
//	    fmt.Println(danbooru.CategoryName(category))
//	}
package danbooru
