// Package storage handles the scraper's files: reading tag lists, writing
// the accepted and skipped result files, and splitting large lists.
//
// Result files are Sinks. A sink writes its header on creation and syncs
// every appended entry to disk, so a crashed run still leaves every decision
// made so far on disk:
//
//	manager, err := storage.NewManager("./outputs")
//	accepted, err := manager.CreateSink("general_tag_descriptions.txt", storage.AcceptedHeader)
//	defer accepted.Close()
//	accepted.Append(storage.FormatAccepted("1girl", "An image with exactly one female character."))
package storage
