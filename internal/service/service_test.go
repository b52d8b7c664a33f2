package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/craftbase/projtrack/internal/config"
	"github.com/craftbase/projtrack/internal/ingest"
	"github.com/craftbase/projtrack/internal/service"
	"github.com/craftbase/projtrack/internal/store"
)

const (
	insertProjectStm           = "INSERT INTO projects (id, name) VALUES ('%s', '%s');"
	insertProjectWithFolderStm = "INSERT INTO projects (id, name, manager, folder_path) VALUES ('%s', '%s', '%s', '%s');"
	insertTaskStm              = "INSERT INTO tasks (project_name, name, start_date, finish_date, status, work_hours) VALUES ('%s', '%s', '2026-01-01', '2026-01-02', '%s', %g);"
)

var dataDir string

func TestService(t *testing.T) {
	dataDir = t.TempDir()
	t.Setenv("PROJTRACK_DATA_DIR", dataDir)
	t.Setenv("PROJTRACK_DB_PATH", filepath.Join(dataDir, "test.db"))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Service Suite")
}

var _ = Describe("project service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *service.ProjectService
	)

	BeforeAll(func() {
		cfg, err := config.New()
		Expect(err).To(BeNil())

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		svc = service.NewProjectService(s, dataDir)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM projects;")
	})

	Context("create", func() {
		It("creates the row and the templated folder structure", func() {
			project, err := svc.CreateProject(context.TODO(), service.ProjectCreateForm{
				Name:    "Line A Retool",
				Manager: "tanaka",
			})
			Expect(err).To(BeNil())
			Expect(project.FolderPath).To(Equal(filepath.Join(dataDir, "projects", "Line A Retool")))

			for _, sub := range []string{ingest.MetadataDirName, "documents", "drawings"} {
				Expect(filepath.Join(project.FolderPath, sub)).To(BeADirectory())
			}
		})

		It("sanitizes unsafe characters in the folder name", func() {
			project, err := svc.CreateProject(context.TODO(), service.ProjectCreateForm{
				Name: `A/B:C*D`,
			})
			Expect(err).To(BeNil())
			Expect(project.Name).To(Equal(`A/B:C*D`))
			Expect(filepath.Base(project.FolderPath)).To(Equal("A_B_C_D"))
			Expect(project.FolderPath).To(BeADirectory())
		})

		It("rejects a blank name", func() {
			_, err := svc.CreateProject(context.TODO(), service.ProjectCreateForm{Name: "   "})
			var invalidErr *service.ErrInvalidProjectName
			Expect(err).To(BeAssignableToTypeOf(invalidErr))
		})

		It("rejects a duplicate name", func() {
			_, err := svc.CreateProject(context.TODO(), service.ProjectCreateForm{Name: "dup"})
			Expect(err).To(BeNil())

			_, err = svc.CreateProject(context.TODO(), service.ProjectCreateForm{Name: "dup"})
			var existsErr *service.ErrProjectExists
			Expect(err).To(BeAssignableToTypeOf(existsErr))
		})
	})

	Context("get and update", func() {
		It("get of an unknown project returns a typed error", func() {
			_, err := svc.GetProject(context.TODO(), "missing")
			var notFoundErr *service.ErrProjectNotFound
			Expect(err).To(BeAssignableToTypeOf(notFoundErr))
		})

		It("updates only the supplied fields", func() {
			_, err := svc.CreateProject(context.TODO(), service.ProjectCreateForm{
				Name:    "update-me",
				Manager: "tanaka",
			})
			Expect(err).To(BeNil())

			manager := "sato"
			updated, err := svc.UpdateProject(context.TODO(), "update-me", service.ProjectUpdateForm{
				Manager: &manager,
			})
			Expect(err).To(BeNil())
			Expect(updated.Manager).To(Equal("sato"))
			Expect(updated.Name).To(Equal("update-me"))
		})
	})

	Context("delete", func() {
		It("removes the row but leaves the folder on disk", func() {
			project, err := svc.CreateProject(context.TODO(), service.ProjectCreateForm{Name: "keep-folder"})
			Expect(err).To(BeNil())

			Expect(svc.DeleteProject(context.TODO(), "keep-folder")).To(BeNil())

			_, err = svc.GetProject(context.TODO(), "keep-folder")
			Expect(err).ToNot(BeNil())
			Expect(project.FolderPath).To(BeADirectory())
		})
	})
})

var _ = Describe("task service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *service.TaskService
	)

	BeforeAll(func() {
		cfg, err := config.New()
		Expect(err).To(BeNil())

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		svc = service.NewTaskService(s)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM tasks;")
		gormdb.Exec("DELETE FROM projects;")
	})

	writeSchedule := func(folder, content string) {
		metaDir := filepath.Join(folder, ingest.MetadataDirName)
		Expect(os.MkdirAll(metaDir, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(metaDir, "schedule.csv"), []byte(content), 0644)).To(Succeed())
	}

	Context("rebuild", func() {
		It("replaces the task table with the ingested batch", func() {
			folder := GinkgoT().TempDir()
			writeSchedule(folder, "name,start_date,finish_date,status,milestone\n"+
				"design,2026-01-05,2026-01-16,in_progress,\n"+
				"tooling,2026-01-19,2026-02-06,未着手,M1\n")

			tx := gormdb.Exec(fmt.Sprintf(insertProjectWithFolderStm, uuid.NewString(), "p1", "tanaka", folder))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertTaskStm, "p1", "stale", "done", 1.0))
			Expect(tx.Error).To(BeNil())

			report, err := svc.Rebuild(context.TODO())
			Expect(err).To(BeNil())
			Expect(report.TotalProjects).To(Equal(1))
			Expect(report.ProcessedProjects).To(Equal(1))
			Expect(report.TaskCount).To(Equal(2))
			Expect(report.ErrorCount).To(Equal(0))

			tasks, err := svc.ListTasks(context.TODO(), "p1", "")
			Expect(err).To(BeNil())
			Expect(tasks).To(HaveLen(2))
			Expect(tasks[1].Status).To(Equal(ingest.StatusNotStarted))
		})

		It("a rebuild over an empty project set clears the table", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertTaskStm, "p1", "stale", "done", 1.0))
			Expect(tx.Error).To(BeNil())

			report, err := svc.Rebuild(context.TODO())
			Expect(err).To(BeNil())
			Expect(report.TaskCount).To(Equal(0))

			tasks, err := svc.ListTasks(context.TODO(), "", "")
			Expect(err).To(BeNil())
			Expect(tasks).To(HaveLen(0))
		})
	})
})

var _ = Describe("export service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *service.ExportService
	)

	BeforeAll(func() {
		cfg, err := config.New()
		Expect(err).To(BeNil())

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		svc = service.NewExportService(s)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM tasks;")
		gormdb.Exec("DELETE FROM projects;")
	})

	Context("csv", func() {
		It("an empty store exports the header only", func() {
			data, err := svc.Export(context.TODO(), service.FormatCSV)
			Expect(err).To(BeNil())

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(1))
			Expect(lines[0]).To(HavePrefix("project,division_code"))
		})

		It("joins tasks with their project's master data", func() {
			tx := gormdb.Exec("INSERT INTO projects (id, name, manager, division_code) VALUES ('" +
				uuid.NewString() + "', 'p1', 'tanaka', 'D01');")
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertTaskStm, "p1", "design", "done", 12.5))
			Expect(tx.Error).To(BeNil())

			data, err := svc.Export(context.TODO(), service.FormatCSV)
			Expect(err).To(BeNil())

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[1]).To(Equal("p1,D01,,,,tanaka,design,2026-01-01,2026-01-02,done,,,12.5"))
		})

		It("a task whose project row is gone still exports", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertTaskStm, "orphan", "design", "done", 1.0))
			Expect(tx.Error).To(BeNil())

			data, err := svc.Export(context.TODO(), service.FormatCSV)
			Expect(err).To(BeNil())

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[1]).To(HavePrefix("orphan,"))
		})
	})

	Context("xlsx", func() {
		It("produces a non-empty workbook", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertTaskStm, "p1", "design", "done", 8.0))
			Expect(tx.Error).To(BeNil())

			data, err := svc.Export(context.TODO(), service.FormatXLSX)
			Expect(err).To(BeNil())
			Expect(len(data)).To(BeNumerically(">", 0))
			// xlsx is a zip container
			Expect(data[:2]).To(Equal([]byte("PK")))
		})
	})

	Context("format validation", func() {
		It("rejects an unknown format", func() {
			_, err := svc.Export(context.TODO(), "pdf")
			var formatErr *service.ErrUnsupportedFormat
			Expect(err).To(BeAssignableToTypeOf(formatErr))
		})
	})
})
