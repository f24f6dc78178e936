// Package artifact mails a content item as a PDF attachment.
//
// Mailer.Process renders the entity through a pdf.Printer into the output
// directory (public://emailed_pdfs by default), sends it with the
// artifact_mail template in the best matching locale, and enqueues a
// disposal.Record so the file is deleted once it is no longer needed.
//
//	m, err := artifact.New(cfg, store, printer, mail, jobs.Queue(dcfg.Queue),
//		artifact.WithDisposalOptions(job.ScheduledIn(dcfg.Delay), job.MaxAttempts(dcfg.MaxAttempts)),
//	)
//	res := m.Process(ctx, entity, "de-AT")
//	if res.Notified {
//		c.AddFlash(cookie.FlashSuccess, res.Notice)
//	}
//	return c.Redirect(http.StatusSeeOther, res.Redirect)
//
// Failures are reported through Result.Err and never reach the end user
// beyond the missing status message.
package artifact
