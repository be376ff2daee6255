package store

import (
	"fmt"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
)

// SamplePassword is the password of every seeded non-admin account.
const SamplePassword = "senha123"

var sampleAccounts = []models.Account{
	{
		ID: 1, Name: "João Silva", Email: "joao@email.com", Type: models.UserTypeCandidate,
		Status: models.AccountActive, CreatedAt: "2024-01-15 10:30",
		Profile: map[string]string{
			"telefone":       "(11) 98765-4321",
			"dataNascimento": "1995-05-20",
			"endereco":       "São Paulo, SP",
			"bio":            "Desenvolvedor Full Stack com 5 anos de experiência",
			"formacao":       "Ciência da Computação",
			"instituicao":    "USP",
			"experiencia":    "5 anos",
			"linkedin":       "linkedin.com/in/joaosilva",
			"github":         "github.com/joaosilva",
		},
	},
	{
		ID: 2, Name: "TechCorp Ltda", Email: "contato@techcorp.com", Type: models.UserTypeCompany,
		Status: models.AccountActive, CreatedAt: "2024-02-20 14:45",
		Profile: map[string]string{
			"razaoSocial": "TechCorp Tecnologia Ltda",
			"nuit":        "123456789",
			"telefone":    "(11) 3000-0000",
			"endereco":    "Av. Paulista, 1000 - São Paulo, SP",
			"descricao":   "Empresa de tecnologia focada em soluções inovadoras",
			"setor":       "Tecnologia",
			"tamanho":     "50-200",
			"website":     "www.techcorp.com",
		},
	},
	{
		ID: 3, Name: "Pedro Costa", Email: "pedro@email.com", Type: models.UserTypeCandidate,
		Status: models.AccountInactive, CreatedAt: "2024-03-10 09:15",
		Profile: map[string]string{
			"telefone":    "(21) 99876-5432",
			"bio":         "Designer UI/UX apaixonado por criar experiências incríveis",
			"formacao":    "Design Gráfico",
			"experiencia": "3 anos",
		},
	},
	{
		ID: 4, Name: "Ana Oliveira", Email: "ana@email.com", Type: models.UserTypeCandidate,
		Status: models.AccountActive, CreatedAt: "2024-04-05 16:20",
		Profile: map[string]string{
			"telefone": "(31) 97654-3210",
			"bio":      "Analista de dados com foco em Business Intelligence",
			"formacao": "Estatística",
		},
	},
	{
		ID: 5, Name: "InnovaSoft", Email: "rh@innovasoft.com", Type: models.UserTypeCompany,
		Status: models.AccountActive, CreatedAt: "2024-05-12 11:00",
		Profile: map[string]string{
			"razaoSocial": "InnovaSoft Soluções em Software S.A.",
			"telefone":    "(21) 2500-5000",
			"descricao":   "Desenvolvimento de software personalizado",
			"setor":       "TI",
			"tamanho":     "10-50",
		},
	},
}

var sampleReports = []models.Report{
	{
		ID: 1, ReferenceType: "empresa", Reason: "conteudo_inadequado",
		Description: "Empresa publicou vaga com informações discriminatórias sobre idade e gênero.",
		ReporterID:  101, ReporterName: "João Silva", ReporterEmail: "joao@email.com",
		Status: models.ReportPending, Date: "2024-09-28 14:30",
	},
	{
		ID: 2, ReferenceType: "mensagem", Reason: "spam",
		Description: "Recebendo mensagens repetitivas não solicitadas de um usuário.",
		ReporterID:  102, ReporterName: "Maria Santos", ReporterEmail: "maria@email.com",
		Attachment: "screenshot.png", Status: models.ReportReviewing, Date: "2024-09-27 10:15",
	},
	{
		ID: 3, ReferenceType: "candidato", Reason: "assedio",
		Description: "Candidato enviou mensagens inadequadas e ofensivas.",
		ReporterID:  103, ReporterName: "Pedro Costa", ReporterEmail: "pedro@email.com",
		Attachment: "evidencia.pdf", Status: models.ReportResolved, Date: "2024-09-25 16:45",
	},
	{
		ID: 4, ReferenceType: "vaga", Reason: "fraude",
		Description: "Vaga falsa solicitando pagamento antecipado para processo seletivo.",
		ReporterID:  104, ReporterName: "Ana Oliveira", ReporterEmail: "ana@email.com",
		Status: models.ReportPending, Date: "2024-09-26 09:20",
	},
}

var sampleTickets = []models.Ticket{
	{
		ID: 1, Name: "João Silva", Email: "joao@email.com",
		Message: "Não consigo fazer login na minha conta. Quando tento entrar, aparece uma mensagem de erro.",
		Status:  models.TicketPending, Date: "2024-09-28 14:30",
	},
	{
		ID: 2, Name: "Maria Santos", Email: "maria@email.com",
		Message: "Como faço para alterar meu perfil? Gostaria de mudar minha foto e informações de contato.",
		Status:  models.TicketInProgress, Date: "2024-09-27 10:15",
	},
	{
		ID: 3, Name: "Pedro Costa", Email: "pedro@email.com",
		Message: "Aparece erro 500 ao tentar enviar mensagem para uma empresa. Já tentei várias vezes.",
		Status:  models.TicketResolved, Date: "2024-09-25 16:45",
	},
	{
		ID: 4, Name: "Ana Oliveira", Email: "ana@email.com",
		Message: "Gostaria de saber mais sobre os planos disponíveis e suas funcionalidades.",
		Status:  models.TicketPending, Date: "2024-09-26 09:20",
	},
}

// Seed replaces the data set with the sample accounts, reports and tickets
// plus an administrator with the given credential. Sample accounts share
// SamplePassword.
func (s *Store) Seed(adminEmail, adminPassword string) error {
	adminHash, err := s.hash(adminPassword)
	if err != nil {
		return err
	}
	sampleHash, err := s.hash(SamplePassword)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*User)
	s.nextID = 1
	for _, a := range sampleAccounts {
		a.Profile = cloneProfile(a.Profile)
		s.insertLocked(&User{Account: a, Role: RoleUser, PasswordHash: sampleHash})
	}
	if s.byEmailLocked(adminEmail) != nil {
		return fmt.Errorf("%w: admin email %q collides with a sample account", ErrAlreadyExists, adminEmail)
	}
	s.insertLocked(s.adminLocked(adminEmail, adminHash))

	s.reports = append([]models.Report(nil), sampleReports...)
	s.tickets = append([]models.Ticket(nil), sampleTickets...)
	s.activity = nil
	s.logLocked("denuncia", "Nova denúncia recebida")
	s.logLocked("usuario", "Novo usuário cadastrado")
	return nil
}

func cloneProfile(p map[string]string) map[string]string {
	if p == nil {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
