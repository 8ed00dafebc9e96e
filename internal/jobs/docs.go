// Package jobs runs the relay's scheduled background work on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
// NotificationDrainJob drains the notification queue every DISPATCH_INTERVAL
// (3s by default). Each tick delivers at most one batch; overlapping ticks are
// skipped with cron.SkipIfStillRunning.
//
// # Usage
//
//	drainJob, err := jobs.NewNotificationDrainJob(dispatcher, 3*time.Second, logger)
//	if err != nil {
//		return err
//	}
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Register("notification_drain", drainJob)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Shutdown
//
// Stop cancels the context handed to a running drain. The dispatcher puts the
// events it had not attempted back at the head of the queue, so nothing is
// lost before the process exits.
package jobs
